package schema

import (
	"time"

	"github.com/lib/pq"
)

// Property is a rental listing.
type Property struct {
	ID               string         `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Name             string         `gorm:"not null" json:"name"`
	Slug             string         `gorm:"not null;uniqueIndex" json:"slug"`
	Description      string         `json:"description"`
	ShortDescription string         `json:"short_description"`
	Location         string         `json:"location"`
	Address          string         `json:"address"`
	MapURL           string         `gorm:"column:map_url" json:"map_url"`
	AirbnbURL        string         `gorm:"column:airbnb_url" json:"airbnb_url"`
	AirbnbICalURL    string         `gorm:"column:airbnb_ical_url" json:"airbnb_ical_url"`
	Amenities        pq.StringArray `gorm:"type:text[]" json:"amenities"`
	Featured         bool           `gorm:"default:false" json:"featured"`
	Active           bool           `gorm:"default:true" json:"active"`
	DisplayOrder     int            `gorm:"default:0" json:"display_order"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// PropertyPhoto belongs to a Property.
type PropertyPhoto struct {
	ID           string    `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	PropertyID   string    `gorm:"type:uuid;not null;index" json:"property_id"`
	URL          string    `gorm:"column:url;not null" json:"url"`
	AltText      string    `json:"alt_text"`
	DisplayOrder int       `gorm:"default:0" json:"display_order"`
	IsPrimary    bool      `gorm:"default:false" json:"is_primary"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CalendarEvent marks a date on a property's calendar (booked, blocked, priced).
// EventDate is kept as the YYYY-MM-DD text the REST API returns.
type CalendarEvent struct {
	ID         string    `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	PropertyID string    `gorm:"type:uuid;not null;index" json:"property_id"`
	EventDate  string    `gorm:"type:date;not null" json:"event_date"`
	EventType  string    `gorm:"not null" json:"event_type"`
	Price      *float64  `gorm:"type:numeric(10,2)" json:"price"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// BlogPost is an article; Status is "draft" or "published".
type BlogPost struct {
	ID               string     `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Title            string     `gorm:"not null" json:"title"`
	Slug             string     `gorm:"not null;uniqueIndex" json:"slug"`
	Excerpt          string     `json:"excerpt"`
	Content          string     `json:"content"`
	FeaturedImageURL string     `gorm:"column:featured_image_url" json:"featured_image_url"`
	Author           string     `json:"author"`
	Status           string     `gorm:"default:draft" json:"status"`
	PublishedAt      *time.Time `json:"published_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// SiteSettings is the singleton site configuration row.
type SiteSettings struct {
	ID           string    `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	SiteName     string    `gorm:"not null" json:"site_name"`
	Tagline      string    `json:"tagline"`
	Description  string    `json:"description"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	FacebookURL  string    `gorm:"column:facebook_url" json:"facebook_url"`
	MessengerURL string    `gorm:"column:messenger_url" json:"messenger_url"`
	Address      string    `json:"address"`
	LogoURL      string    `gorm:"column:logo_url" json:"logo_url"`
	HeroTitle    string    `json:"hero_title"`
	HeroSubtitle string    `json:"hero_subtitle"`
	AboutTitle   string    `json:"about_title"`
	AboutContent string    `json:"about_content"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Property) TableName() string      { return "properties" }
func (PropertyPhoto) TableName() string { return "property_photos" }
func (CalendarEvent) TableName() string { return "calendar_events" }
func (BlogPost) TableName() string      { return "blog_posts" }
func (SiteSettings) TableName() string  { return "site_settings" }
