package mail

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const (
	defaultQueueSize = 100
	sendTimeout      = 10 * time.Second
)

// Notifier sends account emails in the background. Callers never wait on
// delivery and never see its errors; failures are logged.
type Notifier struct {
	sender Sender
	logger *slog.Logger
	queue  chan Message

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewNotifier creates a notifier with a queue of queueSize messages and starts its worker.
func NewNotifier(sender Sender, logger *slog.Logger, queueSize int) *Notifier {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	n := &Notifier{
		sender: sender,
		logger: logger,
		queue:  make(chan Message, queueSize),
	}

	n.wg.Add(1)
	go n.worker()

	return n
}

// SendWelcome queues the signup greeting.
func (n *Notifier) SendWelcome(email, name string) {
	n.enqueue(Message{
		ToEmail: email,
		ToName:  name,
		Subject: "Welcome to Task Manager",
		Text:    fmt.Sprintf("Welcome to the app %s! Let me know how you get along with the app.", name),
	})
}

// SendCancellation queues the goodbye email sent after account deletion.
func (n *Notifier) SendCancellation(email, name string) {
	n.enqueue(Message{
		ToEmail: email,
		ToName:  name,
		Subject: "We're sorry to see you go. Thanks so much for being part of our journey",
		Text: fmt.Sprintf("Goodbye %s! We're sad that you decided to leave us, but we're also grateful "+
			"you allowed us to play a role in your life. Is there anything we could have done differently?", name),
	})
}

// Close stops accepting messages and waits for queued ones to be sent.
func (n *Notifier) Close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	close(n.queue)
	n.mu.Unlock()

	n.wg.Wait()
}

func (n *Notifier) enqueue(msg Message) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if n.closed {
		n.logger.Warn("notifier closed, dropping email", "to", msg.ToEmail, "subject", msg.Subject)
		return
	}

	select {
	case n.queue <- msg:
	default:
		// Queue full, send on a detached goroutine instead of blocking the request.
		n.wg.Add(1)
		go func() {
			defer n.wg.Done()
			n.deliver(msg)
		}()
	}
}

// worker drains the queue until Close.
func (n *Notifier) worker() {
	defer n.wg.Done()
	for msg := range n.queue {
		n.deliver(msg)
	}
}

func (n *Notifier) deliver(msg Message) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if err := n.sender.Send(ctx, msg); err != nil {
		n.logger.Error("email delivery failed", "to", msg.ToEmail, "subject", msg.Subject, "error", err)
		return
	}
	n.logger.Debug("email delivered", "to", msg.ToEmail, "subject", msg.Subject)
}
