// Package seed generates plausible Dubai events for local development and the Firestore
// emulator. Generation is deterministic for a given seed and clock.
package seed

import (
	"cloud-function-discovery/internal/clock"
	"cloud-function-discovery/internal/domain"
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

// Saver stores one event. repository.EventRepository implements it.
type Saver interface {
	Save(ctx context.Context, event *domain.Event) error
}

type template struct {
	category string
	titles   []string
	tags     []string
	family   [2]int
	venues   []string
}

var templates = []template{
	{"music", []string{"Jazz Night", "Live Acoustic Session", "Symphony Under the Stars", "Open Air Concert"},
		[]string{"music", "concert", "live-music"}, [2]int{30, 70}, []string{"Dubai Opera", "Coca-Cola Arena", "The Irish Village"}},
	{"arts", []string{"Contemporary Art Exhibition", "Calligraphy Showcase", "Photography Walk", "Theatre Matinee"},
		[]string{"arts", "exhibition", "theatre"}, [2]int{50, 90}, []string{"Alserkal Avenue", "Etihad Museum", "Jameel Arts Centre"}},
	{"sports", []string{"Sunrise Yoga", "Beach Volleyball Tournament", "Desert Cycling Challenge", "5K Fun Run"},
		[]string{"sports", "fitness", "yoga"}, [2]int{40, 85}, []string{"Kite Beach", "Al Qudra Cycle Track", "Dubai Sports City"}},
	{"food", []string{"Friday Brunch", "Street Food Festival", "Arabic Cooking Class", "Seafood Tasting"},
		[]string{"food", "dining", "brunch"}, [2]int{45, 80}, []string{"Atlantis The Palm", "Time Out Market", "Global Village"}},
	{"outdoor", []string{"Desert Safari", "Mangrove Kayaking", "Stargazing Camp", "Park Picnic Day"},
		[]string{"outdoor", "adventure", "parks", "beach"}, [2]int{55, 95}, []string{"Dubai Desert Conservation Reserve", "Zabeel Park", "Mushrif Park"}},
	{"educational", []string{"Kids Science Workshop", "Robotics for Beginners", "Astronomy Talk", "Coding Bootcamp"},
		[]string{"educational", "workshops", "science", "kids"}, [2]int{70, 100}, []string{"Museum of the Future", "OliOli", "Dubai Library"}},
	{"cultural", []string{"Heritage Walk", "Traditional Craft Fair", "Emirati Storytelling", "Majlis Evening"},
		[]string{"cultural", "heritage", "family"}, [2]int{65, 95}, []string{"Al Fahidi Historical District", "Al Shindagha Museum", "Hatta Heritage Village"}},
	{"shopping", []string{"Night Market", "Designer Pop-up", "Ripe Farmers Market", "Vintage Fair"},
		[]string{"shopping", "market", "lifestyle"}, [2]int{50, 85}, []string{"Dubai Mall", "Mall of the Emirates", "City Walk"}},
	{"entertainment", []string{"Stand-up Comedy Night", "Magic Show", "Outdoor Cinema", "Puppet Theatre"},
		[]string{"entertainment", "shows", "comedy"}, [2]int{40, 90}, []string{"Dubai Festival City", "Roxy Cinemas", "La Perle"}},
	{"nightlife", []string{"Rooftop DJ Night", "Ladies Night", "Beach Club Party", "Late Night Lounge"},
		[]string{"nightlife", "party", "bar", "21+"}, [2]int{0, 20}, []string{"WHITE Dubai", "Soho Garden", "Cove Beach"}},
}

var areas = []string{
	"Palm Jumeirah", "JBR", "Dubai Marina", "Downtown Dubai", "Business Bay", "Bur Dubai", "Deira",
	"DIFC", "City Walk", "La Mer", "Kite Beach", "Dubai Hills", "Al Seef", "Festival City", "Jumeirah",
}

// Generator produces events relative to the clock's current civil time.
type Generator struct {
	faker *gofakeit.Faker
	clock *clock.Context
}

func NewGenerator(c *clock.Context, seed int64) *Generator {
	return &Generator{faker: gofakeit.New(seed), clock: c}
}

// Events returns n generated events.
func (g *Generator) Events(n int) []domain.Event {
	out := make([]domain.Event, n)
	for i := range out {
		out[i] = g.Event()
	}
	return out
}

// Event returns one generated event starting within the next 45 days.
func (g *Generator) Event() domain.Event {
	f := g.faker
	tpl := templates[f.Number(0, len(templates)-1)]
	now := g.clock.Now()

	day := g.clock.AddDays(g.clock.StartOfDay(now), f.Number(0, 45))
	start := day.Add(time.Duration(f.Number(9, 21)) * time.Hour)
	end := start.Add(time.Duration(f.Number(1, 5)) * time.Hour)
	if f.Number(1, 10) == 1 {
		// festival spanning several days
		end = g.clock.AddDays(start, f.Number(2, 5))
	}

	price, label := 0.0, "Free"
	if f.Number(1, 4) > 1 {
		p := f.Number(3, 60) * 10
		price, label = float64(p), fmt.Sprintf("AED %d per person", p)
	}

	status := domain.StatusActive
	if f.Number(1, 20) == 1 {
		status = domain.StatusInactive
	}

	id := f.UUID()
	title := f.RandomString(tpl.titles)
	area := f.RandomString(areas)
	tags := append([]string{}, tpl.tags[:f.Number(1, len(tpl.tags))]...)

	return domain.Event{
		ID:            id,
		OrganizerName: f.Company(),
		Title:         fmt.Sprintf("%s at %s", title, area),
		Description:   fmt.Sprintf("%s %s", title, f.Sentence(12)),
		Category:      tpl.category,
		Tags:          tags,
		City:          "Dubai",
		VenueName:     f.RandomString(tpl.venues),
		VenueArea:     area,
		StartTime:     g.clock.ToStorage(start),
		EndTime:       g.clock.ToStorage(end),
		EventURL:      "https://events.example.com/e/" + id,
		Price:         price,
		PriceLabel:    label,
		FamilyScore:   float64(f.Number(tpl.family[0], tpl.family[1])),
		ImageURL:      f.ImageURL(640, 360),
		Status:        status,
		CreatedAt:     g.clock.ToStorage(now),
	}
}

// Seed saves events and returns how many were written. It stops at the first error.
func Seed(ctx context.Context, repo Saver, events []domain.Event) (int, error) {
	for i := range events {
		if err := repo.Save(ctx, &events[i]); err != nil {
			return i, fmt.Errorf("seed event %s: %w", events[i].ID, err)
		}
	}
	return len(events), nil
}
