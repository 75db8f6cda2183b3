package content

import "time"

// Painting is a single catalog entry. ImageURL points into the asset store
// but nothing enforces that the file actually exists.
type Painting struct {
	ID             int64     `json:"id"`
	Slug           string    `json:"slug,omitempty"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Price          *float64  `json:"price"`
	Width          int       `json:"width"`
	Height         int       `json:"height"`
	ImageURL       string    `json:"imageUrl"`
	Sold           bool      `json:"sold"`
	SeoTitle       string    `json:"seoTitle,omitempty"`
	SeoDescription string    `json:"seoDescription,omitempty"`
	SeoAltText     string    `json:"seoAltText,omitempty"`
	MarketplaceURL string    `json:"marketplaceUrl,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Ref returns the path segment used for the painting's public page.
func (p Painting) Ref() string {
	return refOf(p.Slug, p.ID)
}

// Biography holds the artist's markdown biography. Only the first row is used.
type Biography struct {
	ID       int64  `json:"id"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// Review is a press article, review or post about the artist.
type Review struct {
	ID             int64     `json:"id"`
	Slug           string    `json:"slug,omitempty"`
	Title          string    `json:"title"`
	Author         string    `json:"author"`
	Source         string    `json:"source"`
	Date           string    `json:"date"`
	Type           string    `json:"type"`
	Content        string    `json:"content"`
	ImageURL       string    `json:"imageUrl,omitempty"`
	SeoTitle       string    `json:"seoTitle,omitempty"`
	SeoDescription string    `json:"seoDescription,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Ref returns the path segment used for the review's public page.
func (r Review) Ref() string {
	return refOf(r.Slug, r.ID)
}

// Settings is the site-wide singleton shown in the navbar and footer.
type Settings struct {
	ID           int64  `json:"id"`
	NavbarTitle  string `json:"navbarTitle"`
	ContactEmail string `json:"contactEmail"`
	ContactPhone string `json:"contactPhone"`
}

// ExternalLink is an entry of the ordered social/contact link list.
type ExternalLink struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
	URL   string `json:"url"`
	Icon  string `json:"icon"`
	Order int    `json:"order"`
}

// SeoMetadata overrides the head metadata of one well-known page.
type SeoMetadata struct {
	ID          int64  `json:"id"`
	PageKey     string `json:"pageKey"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	H1          string `json:"h1"`
	Description string `json:"description"`
	ImageAlt    string `json:"imageAlt"`
}

// User is the admin identity. It is provisioned out of band and never exported.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Snapshot is the full content of every exportable table.
type Snapshot struct {
	Paintings     []Painting
	Biography     []Biography
	Reviews       []Review
	ExternalLinks []ExternalLink
	SeoMetadata   []SeoMetadata
	Settings      []Settings
}

// Review types.
const (
	ReviewTypeReview  = "review"
	ReviewTypeArticle = "article"
	ReviewTypePost    = "post"
)

// ReviewTypes lists the accepted review types.
var ReviewTypes = []string{ReviewTypeReview, ReviewTypeArticle, ReviewTypePost}

// SEO page keys.
const (
	PageHome      = "home"
	PageBiography = "biography"
	PageReviews   = "reviews"
	PageContact   = "contact"
)

// PageKeys lists the pages that carry SEO metadata, in display order.
var PageKeys = []string{PageHome, PageBiography, PageReviews, PageContact}

// LinkIcons is the fixed icon vocabulary for external links.
var LinkIcons = []string{
	"instagram", "facebook", "twitter", "linkedin", "youtube",
	"tiktok", "pinterest", "website", "email", "phone", "shop",
}

// IsReviewType reports whether t is an accepted review type.
func IsReviewType(t string) bool {
	return contains(ReviewTypes, t)
}

// IsPageKey reports whether k is a known SEO page key.
func IsPageKey(k string) bool {
	return contains(PageKeys, k)
}

// IsLinkIcon reports whether icon belongs to the icon vocabulary.
func IsLinkIcon(icon string) bool {
	return contains(LinkIcons, icon)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
