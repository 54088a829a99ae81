package adscript

import (
	"time"

	"github.com/google/uuid"
	"github.com/maltedev/dealer-ad-studio/internal/models"
)

type AdType string

const (
	AdTypeYouTube   AdType = "video_youtube"
	AdTypeTikTok    AdType = "video_tiktok"
	AdTypeRadio30   AdType = "radio_30sec"
	AdTypeRadio60   AdType = "radio_60sec"
	AdTypeFacebook  AdType = "facebook"
	AdTypeInstagram AdType = "instagram"
	AdTypeEmail     AdType = "email"
)

// AdFormat is the display name and writing brief for one ad type.
type AdFormat struct {
	Type         AdType `json:"type"`
	Name         string `json:"name"`
	Instructions string `json:"instructions"`
}

// AdFormats lists every supported ad type in presentation order.
var AdFormats = []AdFormat{
	{
		Type:         AdTypeYouTube,
		Name:         "YouTube Video Ad",
		Instructions: "Write a 30-second YouTube pre-roll video ad script. Include visual directions in [brackets]. Hook viewers in the first 5 seconds.",
	},
	{
		Type:         AdTypeTikTok,
		Name:         "TikTok/Reels Video",
		Instructions: "Write a 15-second TikTok/Instagram Reels script. Make it trendy, fast-paced, and engaging. Include visual/action cues.",
	},
	{
		Type:         AdTypeRadio30,
		Name:         "30-Second Radio Spot",
		Instructions: "Write a 30-second radio ad (approximately 75 words). Focus on audio-only appeal. Include clear call to action.",
	},
	{
		Type:         AdTypeRadio60,
		Name:         "60-Second Radio Spot",
		Instructions: "Write a 60-second radio ad (approximately 150 words). Tell a story, build desire, include testimonial-style language.",
	},
	{
		Type:         AdTypeFacebook,
		Name:         "Facebook Ad",
		Instructions: "Write Facebook ad copy with: attention-grabbing headline, 2-3 sentence body, and clear CTA. Optimize for engagement.",
	},
	{
		Type:         AdTypeInstagram,
		Name:         "Instagram Post",
		Instructions: "Write Instagram caption with emojis, hashtags, and engaging hook. Keep it visual-focused and lifestyle-oriented.",
	},
	{
		Type:         AdTypeEmail,
		Name:         "Sales Email",
		Instructions: "Write a sales email with compelling subject line, personalized greeting, 3 key selling points, and soft CTA.",
	},
}

// LookupFormat returns the format registered for t.
func LookupFormat(t AdType) (AdFormat, bool) {
	for _, f := range AdFormats {
		if f.Type == t {
			return f, true
		}
	}
	return AdFormat{}, false
}

type Audience struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Tone        string `json:"tone"`
}

var Audiences = []Audience{
	{
		Name:        "First-Time Buyers",
		Description: "Young adults buying their first car, value-conscious, need guidance",
		Tone:        "Friendly & Helpful",
	},
	{
		Name:        "Families",
		Description: "Parents with kids, prioritize safety, space, and reliability",
		Tone:        "Warm & Trustworthy",
	},
	{
		Name:        "Truck Enthusiasts",
		Description: "People who need capability, towing, and rugged features",
		Tone:        "Bold & Capable",
	},
	{
		Name:        "Luxury Seekers",
		Description: "Buyers wanting premium features, status, and comfort",
		Tone:        "Premium & Sophisticated",
	},
	{
		Name:        "Budget Conscious",
		Description: "Shoppers focused on value, low payments, and fuel efficiency",
		Tone:        "Value-Focused",
	},
}

type Script struct {
	Type           AdType `json:"type"`
	Title          string `json:"title"`
	Script         string `json:"script"`
	TargetAudience string `json:"targetAudience"`
	Tone           string `json:"tone"`
	CallToAction   string `json:"callToAction"`
}

type Request struct {
	Vehicle        *models.Vehicle `json:"vehicle"`
	DealershipName string          `json:"dealershipName"`
	AdTypes        []AdType        `json:"adTypes"`
}

// Batch is one successful generation run.
type Batch struct {
	ID             uuid.UUID      `json:"id"`
	Vehicle        models.Vehicle `json:"vehicle"`
	DealershipName string         `json:"dealershipName"`
	Scripts        []Script       `json:"scripts"`
	CreatedAt      time.Time      `json:"createdAt"`
}
