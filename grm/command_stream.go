package grm

import (
	"fmt"
	"github.com/cockroachdb/errors"
	"golang.org/x/exp/slog"
	"sync"
)

// CommandStream serializes resource map, unmap and destroy requests with the rest of the
// work submitted to the device
type CommandStream interface {
	// EmitResourceMap prepares the map binding of resource and returns its memory
	EmitResourceMap(resource *Resource, flags MapFlags) ([]byte, error)
	EmitResourceUnmap(resource *Resource) error
	// EmitResourceDestroy tears the resource down once prior work has completed. It does not wait
	EmitResourceDestroy(resource *Resource)
	// Finish blocks until every request emitted so far has executed
	Finish()
	Close() error
}

var ErrStreamClosed = errors.New("command stream is closed")

// ImmediateCommandStream executes every request on the calling goroutine
type ImmediateCommandStream struct{}

var _ CommandStream = ImmediateCommandStream{}

func NewImmediateCommandStream() ImmediateCommandStream {
	return ImmediateCommandStream{}
}

func (ImmediateCommandStream) EmitResourceMap(resource *Resource, flags MapFlags) ([]byte, error) {
	return resource.mapInternal(flags)
}

func (ImmediateCommandStream) EmitResourceUnmap(resource *Resource) error {
	return resource.unmapInternal()
}

func (ImmediateCommandStream) EmitResourceDestroy(resource *Resource) {
	resource.destroyInternal()
}

func (ImmediateCommandStream) Finish() {}

func (ImmediateCommandStream) Close() error { return nil }

type commandOp byte

const (
	commandOpMap commandOp = iota
	commandOpUnmap
	commandOpDestroy
	commandOpFinish
)

var commandOpMapping = make(map[commandOp]string)

func (o commandOp) String() string {
	str, ok := commandOpMapping[o]
	if !ok {
		return fmt.Sprintf("commandOp(%d)", o)
	}
	return str
}

func init() {
	commandOpMapping[commandOpMap] = "commandOpMap"
	commandOpMapping[commandOpUnmap] = "commandOpUnmap"
	commandOpMapping[commandOpDestroy] = "commandOpDestroy"
	commandOpMapping[commandOpFinish] = "commandOpFinish"
}

type commandReply struct {
	data []byte
	err  error
}

type command struct {
	op       commandOp
	resource *Resource
	flags    MapFlags
	reply    chan commandReply
}

const defaultCommandStreamDepth int = 64

// QueuedCommandStream executes requests in submission order on a single worker goroutine.
// Map and unmap wait for their result, destroy requests are fire-and-forget.
type QueuedCommandStream struct {
	logger *slog.Logger

	mutex    sync.RWMutex
	closed   bool
	commands chan command
	done     chan struct{}
}

var _ CommandStream = &QueuedCommandStream{}

// NewQueuedCommandStream starts a worker that can hold depth pending requests. A depth of 0
// selects a default
func NewQueuedCommandStream(logger *slog.Logger, depth int) *QueuedCommandStream {
	if depth <= 0 {
		depth = defaultCommandStreamDepth
	}

	stream := &QueuedCommandStream{
		logger:   logger,
		commands: make(chan command, depth),
		done:     make(chan struct{}),
	}

	go stream.run()

	return stream
}

func (s *QueuedCommandStream) run() {
	defer close(s.done)

	for cmd := range s.commands {
		s.execute(cmd)
	}
}

func (s *QueuedCommandStream) execute(cmd command) {
	s.logger.Debug("QueuedCommandStream::execute", slog.String("Op", cmd.op.String()))

	var reply commandReply
	switch cmd.op {
	case commandOpMap:
		reply.data, reply.err = cmd.resource.mapInternal(cmd.flags)
	case commandOpUnmap:
		reply.err = cmd.resource.unmapInternal()
	case commandOpDestroy:
		cmd.resource.destroyInternal()
	case commandOpFinish:
	default:
		panic(fmt.Sprintf("unknown command stream op %s", cmd.op))
	}

	if cmd.reply != nil {
		cmd.reply <- reply
	}
}

func (s *QueuedCommandStream) submit(cmd command) error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.closed {
		return ErrStreamClosed
	}

	s.commands <- cmd
	return nil
}

func (s *QueuedCommandStream) submitAndWait(cmd command) commandReply {
	cmd.reply = make(chan commandReply, 1)

	err := s.submit(cmd)
	if err != nil {
		return commandReply{err: err}
	}

	return <-cmd.reply
}

func (s *QueuedCommandStream) EmitResourceMap(resource *Resource, flags MapFlags) ([]byte, error) {
	reply := s.submitAndWait(command{op: commandOpMap, resource: resource, flags: flags})
	return reply.data, reply.err
}

func (s *QueuedCommandStream) EmitResourceUnmap(resource *Resource) error {
	return s.submitAndWait(command{op: commandOpUnmap, resource: resource}).err
}

func (s *QueuedCommandStream) EmitResourceDestroy(resource *Resource) {
	err := s.submit(command{op: commandOpDestroy, resource: resource})
	if err != nil {
		s.logger.Warn("QueuedCommandStream::EmitResourceDestroy stream is closed, destroying inline")
		resource.destroyInternal()
	}
}

func (s *QueuedCommandStream) Finish() {
	s.submitAndWait(command{op: commandOpFinish})
}

// Close drains the queue and stops the worker
func (s *QueuedCommandStream) Close() error {
	s.mutex.Lock()
	if s.closed {
		s.mutex.Unlock()
		return ErrStreamClosed
	}
	s.closed = true
	close(s.commands)
	s.mutex.Unlock()

	<-s.done
	return nil
}
