package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Publisher RabbitMQ 事件发布器
// 裁决通知为尽力投递（fire-and-forget）：投递失败只记日志，不影响主流程；
// nil Publisher 表示队列未启用，所有发布调用直接返回
type Publisher struct {
	conn   *amqp.Connection
	logger *zap.Logger
}

// NewPublisher 建立 RabbitMQ 连接并预声明队列
func NewPublisher(url string, logger *zap.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("RabbitMQ 连接失败: %w", err)
	}

	p := &Publisher{conn: conn, logger: logger}

	// 队列声明幂等；durable 保证 broker 重启后消息不丢
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("打开 RabbitMQ channel 失败: %w", err)
	}
	defer ch.Close()

	for _, name := range []string{QueueApplicationDecided, QueueRoomAssigned} {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			conn.Close()
			return nil, fmt.Errorf("声明队列 %s 失败: %w", name, err)
		}
	}

	logger.Info("RabbitMQ 连接成功")
	return p, nil
}

// PublishApplicationDecided 发布申请裁决事件
func (p *Publisher) PublishApplicationDecided(ctx context.Context, event *ApplicationDecidedEvent) {
	p.publish(ctx, QueueApplicationDecided, event)
}

// PublishRoomAssigned 发布房间分配事件
func (p *Publisher) PublishRoomAssigned(ctx context.Context, event *RoomAssignedEvent) {
	p.publish(ctx, QueueRoomAssigned, event)
}

func (p *Publisher) publish(ctx context.Context, queueName string, event interface{}) {
	if p == nil || p.conn == nil {
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("序列化队列事件失败", zap.String("queue", queueName), zap.Error(err))
		return
	}

	ch, err := p.conn.Channel()
	if err != nil {
		p.logger.Warn("打开 RabbitMQ channel 失败，事件丢弃", zap.String("queue", queueName), zap.Error(err))
		return
	}
	defer ch.Close()

	err = ch.PublishWithContext(ctx,
		"",        // 默认 exchange
		queueName, // routing key = 队列名
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		p.logger.Warn("投递队列事件失败", zap.String("queue", queueName), zap.Error(err))
	}
}

// Close 关闭 RabbitMQ 连接
func (p *Publisher) Close() error {
	if p == nil || p.conn == nil {
		return nil
	}
	return p.conn.Close()
}
