// Package queue runs analyses requested over RabbitMQ and publishes their status.
package queue

import (
	"context"
	"errors"
	"fmt"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultQueue    = "analyses"
	DefaultExchange = "analysis_updates"
	DefaultWorkers  = 3
)

type Config struct {
	URL      string      `mapstructure:"url"`
	URLFile  string      `mapstructure:"url-file"`
	Queue    string      `mapstructure:"queue"`
	Exchange string      `mapstructure:"exchange"`
	Workers  int         `mapstructure:"workers"`
	Prefetch int         `mapstructure:"prefetch"`
	Retry    RetryPolicy `mapstructure:"retry"`
}

func (c Config) withDefaults() Config {
	if c.Queue == "" {
		c.Queue = DefaultQueue
	}
	if c.Exchange == "" {
		c.Exchange = DefaultExchange
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.Prefetch <= 0 {
		c.Prefetch = 1
	}
	return c
}

// Consumer runs a pool of workers, each on its own channel.
type Consumer struct {
	cfg     Config
	handler func(ctx context.Context, body []byte) error
	logger  *zap.Logger
}

func NewConsumer(cfg Config, processor *Processor, logger *zap.Logger) *Consumer {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Consumer{
		cfg:     cfg.withDefaults(),
		handler: processor.Handle,
		logger:  logger,
	}
}

// Run blocks until ctx is cancelled or a worker fails.
func (c *Consumer) Run(ctx context.Context, conn *amqp.Connection) error {
	setup, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("opening setup channel: %w", err)
	}

	if err := setup.ExchangeDeclare(c.cfg.Exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		setup.Close()
		return fmt.Errorf("declaring exchange %s: %w", c.cfg.Exchange, err)
	}
	setup.Close()

	g, gctx := errgroup.WithContext(ctx)
	for i := range c.cfg.Workers {
		c.logger.Info("worker started", zap.Int("worker", i+1))
		g.Go(func() error {
			return c.worker(gctx, conn, i+1)
		})
	}

	return g.Wait()
}

func (c *Consumer) worker(ctx context.Context, conn *amqp.Connection, id int) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("worker %d: opening channel: %w", id, err)
	}
	defer ch.Close()

	if err := ch.Qos(c.cfg.Prefetch, 0, false); err != nil {
		return fmt.Errorf("worker %d: setting qos: %w", id, err)
	}

	if _, err := ch.QueueDeclare(
		c.cfg.Queue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("worker %d: declaring queue: %w", id, err)
	}

	msgs, err := ch.Consume(c.cfg.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("worker %d: consuming: %w", id, err)
	}

	log := c.logger.With(zap.Int("worker", id))

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("worker %d: %w", id, errDeliveriesClosed)
			}
			c.settle(ctx, log, msg, msg.Body)
		}
	}
}

var errDeliveriesClosed = errors.New("delivery channel closed")

type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// settle handles body and acknowledges it. Failed messages are not requeued.
func (c *Consumer) settle(ctx context.Context, log *zap.Logger, ack acknowledger, body []byte) {
	if err := c.handler(ctx, body); err != nil {
		log.Error("handling message", zap.Error(err))
		if err := ack.Nack(false, false); err != nil {
			log.Warn("nack failed", zap.Error(err))
		}
		return
	}

	if err := ack.Ack(false); err != nil {
		log.Warn("ack failed", zap.Error(err))
	}
}

// AMQPPublisher publishes status updates to a topic exchange.
type AMQPPublisher struct {
	conn     *amqp.Connection
	exchange string
}

func NewAMQPPublisher(conn *amqp.Connection, exchange string) *AMQPPublisher {
	if exchange == "" {
		exchange = DefaultExchange
	}
	return &AMQPPublisher{conn: conn, exchange: exchange}
}

func (p *AMQPPublisher) Publish(ctx context.Context, routingKey string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	return ch.Publish(
		p.exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}
