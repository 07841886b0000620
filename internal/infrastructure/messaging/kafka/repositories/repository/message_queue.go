package repository

import (
	"context"
	"errors"
	"sync"

	sdk "github.com/segmentio/kafka-go"
	"github.com/whiteelite/garage/internal/domain/entities"
	domainrepos "github.com/whiteelite/garage/internal/domain/repositories"
)

// KafkaMessageQueueParams implements repositories.MessageQueueParams
// and provides configuration for initializing KafkaMessageQueue.
type KafkaMessageQueueParams struct {
	// Required
	Brokers []string
	Topic   string

	// Optional
	GroupID          string
	ToProduceBufSize int
	ToConsumeBufSize int

	// ProducerOnly skips the group reader. Use it when nothing reads
	// ToConsumeBuffered, so no events are committed unseen.
	ProducerOnly bool
}

func (p KafkaMessageQueueParams) Get() map[string]any {
	return map[string]any{
		"brokers":         p.Brokers,
		"topic":           p.Topic,
		"groupId":         p.GroupID,
		"toProduceBuffer": p.ToProduceBufSize,
		"toConsumeBuffer": p.ToConsumeBufSize,
		"producerOnly":    p.ProducerOnly,
	}
}

// KafkaMessageQueue carries LevelChanged events through Kafka.
type KafkaMessageQueue struct {
	ctx    context.Context
	cancel context.CancelFunc
	prodWG *sync.WaitGroup
	consWG *sync.WaitGroup
	once   sync.Once

	reader *sdk.Reader
	writer *sdk.Writer

	toProduce chan entities.LevelChanged
	toConsume chan entities.LevelChanged

	prodBucket chan *entities.LevelChanged
	errs       chan error
}

// InitializeKafkaMessageQueue creates a KafkaMessageQueue using params.
// Params of another type leave brokers and topic empty; check them with
// ValidateKafkaParams first.
func InitializeKafkaMessageQueue(params domainrepos.MessageQueueParams) domainrepos.MessageQueue {
	typed, _ := params.(KafkaMessageQueueParams)
	return NewKafkaMessageQueue(typed)
}

func NewKafkaMessageQueue(params KafkaMessageQueueParams) *KafkaMessageQueue {
	params = withDefaults(params)

	ctx, cancel := context.WithCancel(context.Background())

	writer := &sdk.Writer{
		Addr:         sdk.TCP(params.Brokers...),
		Topic:        params.Topic,
		RequiredAcks: sdk.RequireAll,
		Balancer:     &sdk.Hash{},
	}

	var reader *sdk.Reader
	if !params.ProducerOnly {
		reader = sdk.NewReader(sdk.ReaderConfig{
			Brokers: params.Brokers,
			Topic:   params.Topic,
			GroupID: params.GroupID,
		})
	}

	mq := &KafkaMessageQueue{
		ctx:        ctx,
		cancel:     cancel,
		prodWG:     &sync.WaitGroup{},
		consWG:     &sync.WaitGroup{},
		reader:     reader,
		writer:     writer,
		toProduce:  make(chan entities.LevelChanged, params.ToProduceBufSize),
		toConsume:  make(chan entities.LevelChanged, params.ToConsumeBufSize),
		prodBucket: make(chan *entities.LevelChanged, params.ToProduceBufSize),
		errs:       make(chan error, 16),
	}

	mq.startWorkers()
	return mq
}

func withDefaults(p KafkaMessageQueueParams) KafkaMessageQueueParams {
	if p.ToProduceBufSize <= 0 {
		p.ToProduceBufSize = 1024
	}
	if p.ToConsumeBufSize <= 0 {
		p.ToConsumeBufSize = 1024
	}
	return p
}

func (q *KafkaMessageQueue) startWorkers() {
	q.prodWG.Add(1)
	go StartProducer(q.ctx, q.prodWG, q.writer, q.prodBucket, q.errs)

	if q.reader != nil {
		q.consWG.Add(1)
		go StartConsumer(q.ctx, q.consWG, q.reader, q.toConsume, q.errs)
	}

	// Bridge external toProduce -> prodBucket until toProduce is closed
	q.prodWG.Add(1)
	go func() {
		defer q.prodWG.Done()
		defer close(q.prodBucket)
		for e := range q.toProduce {
			event := e
			q.prodBucket <- &event
		}
	}()
}

// ToConsumeBuffered exposes the consumer channel of events. For a
// ProducerOnly queue it stays empty and is closed by Close.
func (q *KafkaMessageQueue) ToConsumeBuffered() <-chan entities.LevelChanged {
	return q.toConsume
}

// ToProduceBuffered exposes the producer channel of events.
func (q *KafkaMessageQueue) ToProduceBuffered() chan<- entities.LevelChanged {
	return q.toProduce
}

// Errors exposes worker failures. It is never closed.
func (q *KafkaMessageQueue) Errors() <-chan error {
	return q.errs
}

// Close flushes pending events to Kafka, then stops the consumer and
// closes resources. Nothing may be sent on ToProduceBuffered after Close.
// Safe to call more than once.
func (q *KafkaMessageQueue) Close() {
	q.once.Do(func() {
		close(q.toProduce)
		q.prodWG.Wait()

		q.cancel()
		q.consWG.Wait()

		if q.reader != nil {
			_ = q.reader.Close()
		}
		_ = q.writer.Close()

		// Workers are gone, nothing else sends on toConsume.
		close(q.toConsume)
	})
}

// Compile-time assertions to ensure interface conformance
var _ domainrepos.MessageQueueConsumer = (*KafkaMessageQueue)(nil)
var _ domainrepos.MessageQueueProducer = (*KafkaMessageQueue)(nil)
var _ domainrepos.MessageQueue = (*KafkaMessageQueue)(nil)
var _ domainrepos.InitializeMessageQueue = InitializeKafkaMessageQueue

// ValidateKafkaParams ensures required params are set.
func ValidateKafkaParams(p KafkaMessageQueueParams) error {
	if len(p.Brokers) == 0 {
		return errors.New("kafka brokers are required")
	}
	if p.Topic == "" {
		return errors.New("kafka topic is required")
	}
	return nil
}
