// Package catalog holds the read-only reference data of the zoo: companions,
// garden zones, task templates, the weather-mood taxonomy and the growth tiers.
package catalog

import (
	"math/rand/v2"
	"strings"
)

type Zone string

const (
	ZoneSelfCare     Zone = "self-care"
	ZonePhysical     Zone = "physical"
	ZoneEmotional    Zone = "emotional"
	ZoneCreative     Zone = "creative"
	ZoneSocial       Zone = "social"
	ZoneOrganization Zone = "organization"
	ZoneRest         Zone = "rest"
)

// Zones lists the garden zones in display order.
var Zones = []Zone{
	ZoneSelfCare, ZonePhysical, ZoneEmotional, ZoneCreative, ZoneSocial, ZoneOrganization, ZoneRest,
}

func (z Zone) IsValid() bool {
	switch z {
	case ZoneSelfCare, ZonePhysical, ZoneEmotional, ZoneCreative, ZoneSocial, ZoneOrganization, ZoneRest:
		return true
	default:
		return false
	}
}

// DefaultZone is used when a companion or suggestion has no better match.
const DefaultZone Zone = ZoneSelfCare

var zoneNames = map[Zone]string{
	ZoneSelfCare:     "自我关怀园区",
	ZonePhysical:     "身体健康园区",
	ZoneEmotional:    "情绪关怀园区",
	ZoneCreative:     "创造力园区",
	ZoneSocial:       "社交连接园区",
	ZoneOrganization: "生活整理园区",
	ZoneRest:         "休息放松园区",
}

// DisplayName returns the zone's human-readable name.
func (z Zone) DisplayName() string {
	if n, ok := zoneNames[z]; ok {
		return n
	}
	return string(z)
}

// ParseZone accepts the zone key in any case.
func ParseZone(input string) (Zone, bool) {
	z := Zone(strings.TrimSpace(strings.ToLower(input)))
	return z, z.IsValid()
}

type CompanionType string

const (
	CompanionCat     CompanionType = "cat"
	CompanionDeer    CompanionType = "deer"
	CompanionFox     CompanionType = "fox"
	CompanionParrot  CompanionType = "parrot"
	CompanionPenguin CompanionType = "penguin"
	CompanionBeaver  CompanionType = "beaver"
	CompanionSloth   CompanionType = "sloth"
)

func (c CompanionType) IsValid() bool {
	_, ok := Companion(c)
	return ok
}

// ParseCompanion accepts the companion key in any case.
func ParseCompanion(input string) (CompanionType, bool) {
	c := CompanionType(strings.TrimSpace(strings.ToLower(input)))
	return c, c.IsValid()
}

type WeatherMood string

const (
	MoodSunny  WeatherMood = "sunny"
	MoodCloudy WeatherMood = "cloudy"
	MoodRainy  WeatherMood = "rainy"
	MoodStormy WeatherMood = "stormy"
)

// DefaultMood is returned when no keyword matches.
const DefaultMood WeatherMood = MoodSunny

func (m WeatherMood) IsValid() bool {
	switch m {
	case MoodSunny, MoodCloudy, MoodRainy, MoodStormy:
		return true
	default:
		return false
	}
}

// ParseMood accepts the weather key in any case.
func ParseMood(input string) (WeatherMood, bool) {
	m := WeatherMood(strings.TrimSpace(strings.ToLower(input)))
	return m, m.IsValid()
}

// Rand is the randomness used for template, line and temperature picks.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// SharedRand draws from the process-wide math/rand/v2 source.
type SharedRand struct{}

func (SharedRand) IntN(n int) int { return rand.IntN(n) }
