package repository

import (
	"testing"
)

func TestValidateKafkaParams(t *testing.T) {
	tests := []struct {
		name    string
		params  KafkaMessageQueueParams
		wantErr bool
	}{
		{name: "ok", params: KafkaMessageQueueParams{Brokers: []string{"localhost:9092"}, Topic: "t"}},
		{name: "no brokers", params: KafkaMessageQueueParams{Topic: "t"}, wantErr: true},
		{name: "no topic", params: KafkaMessageQueueParams{Brokers: []string{"localhost:9092"}}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKafkaParams(tt.params)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateKafkaParams() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParamsGet(t *testing.T) {
	p := KafkaMessageQueueParams{Brokers: []string{"a:9092"}, Topic: "levels", GroupID: "g"}
	got := p.Get()

	if got["topic"] != "levels" || got["groupId"] != "g" || got["producerOnly"] != false {
		t.Fatalf("Get() = %v", got)
	}
	if brokers, ok := got["brokers"].([]string); !ok || len(brokers) != 1 {
		t.Fatalf("brokers = %v", got["brokers"])
	}
}

func TestWithDefaults(t *testing.T) {
	p := withDefaults(KafkaMessageQueueParams{ToConsumeBufSize: 8})

	if p.ToProduceBufSize != 1024 {
		t.Fatalf("ToProduceBufSize = %d, want 1024", p.ToProduceBufSize)
	}
	if p.ToConsumeBufSize != 8 {
		t.Fatalf("ToConsumeBufSize = %d, want 8", p.ToConsumeBufSize)
	}
}

func TestReportDoesNotBlock(t *testing.T) {
	errs := make(chan error, 1)
	report(errs, errTest("first"))
	report(errs, errTest("dropped"))

	if got := (<-errs).Error(); got != "first" {
		t.Fatalf("got %q, want first", got)
	}
}

type errTest string

func (e errTest) Error() string { return string(e) }

func TestProducerOnlyQueueHasNoReader(t *testing.T) {
	q := NewKafkaMessageQueue(KafkaMessageQueueParams{
		Brokers:      []string{"127.0.0.1:1"},
		Topic:        "levels",
		ProducerOnly: true,
	})
	if q.reader != nil {
		t.Fatal("producer-only queue must not join a consumer group")
	}

	q.Close()
	q.Close()

	if _, ok := <-q.ToConsumeBuffered(); ok {
		t.Fatal("expected consumer channel to be closed and empty")
	}
}
