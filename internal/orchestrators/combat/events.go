package combat

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/events"
)

// Event topics published by the combat orchestrator. Presentation
// subscribes to these; the orchestrator itself subscribes to the room
// mutation topics to drive persistence.
const (
	EventCombatStarted    = "combat.started"
	EventCombatPrediction = "combat.prediction"
	EventCombatConfirmed  = "combat.confirmed"
	EventCombatTurn       = "combat.turn"
	EventCombatEnded      = "combat.ended"
	EventCombatError      = "combat.error"
	EventLootDropped      = "loot.dropped"
	EventRoomCleared      = "room.cleared"
	EventItemPickedUp     = "item.picked_up"
)

// publish emits one game event with the given context payload. Event
// delivery failures are logged, never propagated: a broken listener must
// not corrupt combat state.
func (o *orchestrator) publish(ctx context.Context, topic string, source, target core.Entity, payload map[string]any) {
	event := events.NewGameEvent(topic, source, target)
	for key, value := range payload {
		event.Context().Set(key, value)
	}

	if err := o.eventBus.Publish(ctx, event); err != nil {
		slog.Warn("Event publish failed",
			"topic", topic,
			"error", err,
		)
	}
}
