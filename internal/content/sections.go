package content

import (
	"strconv"

	"roomify/internal/models"
)

// Landing is everything the home page renders.
type Landing struct {
	Hero         Hero
	Featured     []models.Product
	Testimonials []models.Testimonial
	Highlights   []Highlight
	Lookbook     []LookbookImage
	Journal      []Article
	Stats        []Stat
}

type Highlight struct {
	Title       string
	Description string
}

type LookbookImage struct {
	Title    string
	Subtitle string
	Image    string
}

type Article struct {
	Title    string
	Excerpt  string
	Date     string
	Image    string
	Category string
}

type Stat struct {
	Value string
	Label string
}

// The fixed sections are editorial copy that never lived in the database.

var Highlights = []Highlight{
	{"Sustainable Materials", "Ethically sourced, eco-friendly materials that honor both craft and planet."},
	{"Artisan Crafted", "Each piece is meticulously handcrafted by skilled artisans with decades of experience."},
	{"Fast Shipping", "Premium packaging and express delivery to bring your vision to life quickly."},
}

var Lookbook = []LookbookImage{
	{"Modern Living", "Contemporary elegance", pexels(1571460)},
	{"Serene Bedroom", "Peaceful retreat", pexels(1743229)},
	{"Dining Space", "Gather & dine", pexels(1395967)},
	{"Cozy Corner", "Reading nook", pexels(1866149)},
	{"Home Office", "Productive space", pexels(1957477)},
	{"Modern Kitchen", "Culinary haven", pexels(2724749)},
	{"Spa Bathroom", "Luxury relaxation", pexels(1910472)},
	{"Outdoor Living", "Nature meets design", pexels(1643383)},
}

var Journal = []Article{
	{
		Title:    "Minimalism Trends 2025",
		Excerpt:  "Discover how less truly becomes more in modern interior design. Explore the latest minimalist approaches that create serene, functional spaces.",
		Date:     "November 20, 2025",
		Image:    pexels(1743231),
		Category: "Trends",
	},
	{
		Title:    "How to Style Brass Accents",
		Excerpt:  "Master the art of incorporating warm metallic tones into your space. Learn the secrets of balancing brass with modern aesthetics.",
		Date:     "November 15, 2025",
		Image:    pexels(2459349),
		Category: "Styling Tips",
	},
	{
		Title:    "Sustainable Living Spaces",
		Excerpt:  "Create an eco-friendly home without compromising on style. Discover sustainable materials and practices for conscious living.",
		Date:     "November 10, 2025",
		Image:    pexels(1030850),
		Category: "Sustainability",
	},
	{
		Title:    "Color Psychology in Home Design",
		Excerpt:  "Understand how colors affect mood and create harmonious spaces. Transform your home with strategic color choices.",
		Date:     "November 5, 2025",
		Image:    pexels(1571460),
		Category: "Design Theory",
	},
}

var Stats = []Stat{
	{"10K+", "Happy Customers"},
	{"500+", "Curated Products"},
	{"98%", "Satisfaction Rate"},
	{"15+", "Years Experience"},
}

func pexels(id int) string {
	return "https://images.pexels.com/photos/" + strconv.Itoa(id) + "/pexels-photo-" + strconv.Itoa(id) + ".jpeg?auto=compress&cs=tinysrgb&w=1200"
}
