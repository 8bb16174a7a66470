// Package aws provides sources backed by AWS services.
package aws

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/sqs"

	through "github.com/imishinist/go-through"
	"github.com/imishinist/go-through/flow"
	ssync "github.com/imishinist/go-through/sync"
)

// ReceiveMessageAPI is the part of *sqs.Client the source uses.
type ReceiveMessageAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
}

// QueueMessage is a received message. ReceiptHandle is nil when the body
// could not be handled, so the message is not deleted by mistake.
type QueueMessage[T any] struct {
	ReceiptHandle *string
	Body          *T
}

type SQSSourceConfig[T any] struct {
	QueueURL string

	MaxNumberOfMessages int
	WaitTimeSeconds     int

	// Parallelism is the number of concurrent ReceiveMessage calls.
	Parallelism uint

	BodyHandler func(*string) (*T, error)

	Logger *slog.Logger
}

// SQSSource receives messages until ctx is done or a receive fails.
type SQSSource[T any] struct {
	client ReceiveMessageAPI

	mu     sync.RWMutex
	config *SQSSourceConfig[T]
	err    error

	sem *ssync.DynamicSemaphore
	out chan any
}

var _ through.Source = (*SQSSource[string])(nil)

func NewSQSSource[T any](ctx context.Context, client ReceiveMessageAPI, config *SQSSourceConfig[T]) *SQSSource[T] {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	sqsSource := &SQSSource[T]{
		client: client,
		config: config,
		sem:    ssync.NewDynamicSemaphore(max(config.Parallelism, 1)),
		out:    make(chan any),
	}
	go sqsSource.receive(ctx)
	return sqsSource
}

func (s *SQSSource[T]) receive(ctx context.Context) {
	var wg sync.WaitGroup
	defer func() {
		wg.Wait()
		close(s.out)
	}()

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	for {
		if err := s.sem.AcquireN(ctx, 1); err != nil {
			return
		}
		wg.Add(1)
		go func() {
			defer s.sem.Release()
			defer wg.Done()

			config := s.getConfig()
			result, err := s.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
				QueueUrl:            &config.QueueURL,
				MaxNumberOfMessages: int32(config.MaxNumberOfMessages),
				WaitTimeSeconds:     int32(config.WaitTimeSeconds),
			})
			if err != nil {
				if ctx.Err() == nil {
					s.setErr(fmt.Errorf("aws: receive message: %w", err))
					cancel(err)
				}
				return
			}

			for _, message := range result.Messages {
				var receiptHandle *string
				body, err := config.BodyHandler(message.Body)
				if err == nil {
					receiptHandle = message.ReceiptHandle
				} else {
					config.Logger.Warn("aws: body handler failed", "queue", config.QueueURL, "error", err)
				}
				m := QueueMessage[T]{
					ReceiptHandle: receiptHandle,
					Body:          body,
				}
				select {
				case <-ctx.Done():
					return
				case s.out <- m:
				}
			}
		}()
	}
}

func (s *SQSSource[T]) getConfig() *SQSSourceConfig[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.config
}

func (s *SQSSource[T]) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err == nil {
		s.err = err
	}
}

// Err returns the receive error that stopped the source, if any.
func (s *SQSSource[T]) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.err
}

func (s *SQSSource[T]) Out() <-chan any {
	return s.out
}

func (s *SQSSource[T]) Via(operator through.Flow) through.Flow {
	flow.DoStream(s, operator)
	return operator
}

// ReloadConfig replaces the configuration. Receives in flight keep the old one;
// a larger parallelism starts new receives right away.
func (s *SQSSource[T]) ReloadConfig(config *SQSSourceConfig[T]) {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	s.mu.Lock()
	s.config = config
	s.mu.Unlock()

	s.sem.Set(max(config.Parallelism, 1))
}
