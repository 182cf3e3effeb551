package helpers

import (
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/google/uuid"
)

// PublishEvent marshals the payload and publishes it with a fresh
// correlation ID. Returns the correlation ID so callers can log it.
func PublishEvent(publisher message.Publisher, topic string, payload interface{}) (string, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	correlationID := uuid.New().String()
	msg := message.NewMessage(correlationID, payloadBytes)
	msg.Metadata.Set(middleware.CorrelationIDMetadataKey, correlationID)
	msg.Metadata.Set("topic", topic)

	return correlationID, publisher.Publish(topic, msg)
}

// DiscordMaxMessageLen is the hard limit Discord places on one message.
const DiscordMaxMessageLen = 2000

// ChunkLines splits report lines into messages that fit under Discord's
// length limit. Lines stay intact unless a single line exceeds the
// limit on its own, in which case it is hard-split; Discord rejects
// oversized messages outright.
func ChunkLines(lines []string, maxLen int) []string {
	var chunks []string
	var current []byte
	for _, line := range lines {
		for len(line) > maxLen {
			if len(current) > 0 {
				chunks = append(chunks, string(current))
				current = current[:0]
			}
			chunks = append(chunks, line[:maxLen])
			line = line[maxLen:]
		}
		if len(current) > 0 && len(current)+len(line)+1 > maxLen {
			chunks = append(chunks, string(current))
			current = current[:0]
		}
		if len(current) > 0 {
			current = append(current, '\n')
		}
		current = append(current, line...)
	}
	if len(current) > 0 {
		chunks = append(chunks, string(current))
	}
	return chunks
}
