package storage

import (
	"time"

	"zootopia/internal/catalog"
)

type Animal struct {
	ID               string
	OwnerID          string
	Type             catalog.CompanionType
	Name             string
	Personality      string
	GardenZone       catalog.Zone
	ExperiencePoints int
	// GrowthTier and AffectionLevel are derived from ExperiencePoints by the
	// store on every write.
	GrowthTier     int
	AffectionLevel int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Task struct {
	ID               string
	OwnerID          string
	AnimalID         *string
	Title            string
	Description      string
	GardenZone       catalog.Zone
	ExperienceReward int
	CreatedAt        time.Time
	IsCompleted      bool
	CompletedAt      *time.Time
	IsDeleted        bool
	DeletedAt        *time.Time
}

type MoodRecord struct {
	OwnerID     string
	Date        string // YYYY-MM-DD
	WeatherMood catalog.WeatherMood
	UpdatedAt   time.Time
}

type Sender string

const (
	SenderUser      Sender = "user"
	SenderCompanion Sender = "companion"
)

func (s Sender) IsValid() bool {
	return s == SenderUser || s == SenderCompanion
}

type ChatEntry struct {
	ID        string
	OwnerID   string
	AnimalID  string
	Sender    Sender
	Message   string
	CreatedAt time.Time
}

type APIConfig struct {
	EndpointURL string `json:"endpointUrl"`
	APIKey      string `json:"apiKey"`
	ModelName   string `json:"modelName"`
}

// Completion is the outcome of a successful CompleteTask: the completed task and,
// when the task belongs to a companion, the companion after the reward.
type Completion struct {
	Task       Task
	Animal     *Animal
	XPAwarded  int
	TierBefore int
	TierAfter  int
}

// DateKey formats t as the per-day mood key.
func DateKey(t time.Time) string {
	return t.Format(time.DateOnly)
}
