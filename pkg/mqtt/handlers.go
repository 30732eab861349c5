package mqtt

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/models"
)

// WarningsTopic answers warning lookups for a guild member.
const WarningsTopic = "warnings"

// WarningsLookup returns the active warnings of a member.
type WarningsLookup func(ctx context.Context, guildID, userID string) ([]models.Warning, error)

// WarningsHandler serves {"guildId": ..., "userId": ...} requests with the
// member's active warnings.
func WarningsHandler(lookup WarningsLookup) RequestHandler {
	return func(payload map[string]interface{}) (interface{}, error) {
		guildID, _ := payload["guildId"].(string)
		userID, _ := payload["userId"].(string)
		if guildID == "" || userID == "" {
			return nil, fmt.Errorf("guildId y userId son obligatorios")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		warns, err := lookup(ctx, guildID, userID)
		if err != nil {
			return nil, err
		}
		if warns == nil {
			warns = []models.Warning{}
		}
		return warns, nil
	}
}
