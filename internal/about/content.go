package about

import "strings"

type ContactInfo struct {
	Email          string `json:"email"`
	Instagram      string `json:"instagram"`
	StudioLocation string `json:"studioLocation"`
}

type Exhibition struct {
	Year    string `json:"year"`
	Title   string `json:"title"`
	Gallery string `json:"gallery"`
}

// Profile is the static artist page payload.
type Profile struct {
	ArtistName      string       `json:"artistName"`
	Biography       string       `json:"biography"`
	ArtistStatement string       `json:"artistStatement"`
	StudioImages    []string     `json:"studioImages"`
	ContactInfo     ContactInfo  `json:"contactInfo"`
	Exhibitions     []Exhibition `json:"exhibitions"`
}

// Default returns a fresh copy of the studio profile; callers may mutate it.
func Default() Profile {
	return Profile{
		ArtistName: "Jane Doe",
		Biography: paragraphs(
			"Jane Doe is a contemporary artist working out of Portland, Oregon. She paints vivid abstract landscapes and botanical studies, and has shown work in galleries across the United States and Europe over the last fifteen years.",
			"She completed an MFA at the Rhode Island School of Design in 2008 and has since built a practice that mixes traditional printmaking with digital processes.",
			"That combination gives her prints the layered textures and soft colour gradients collectors know her for.",
		),
		ArtistStatement: paragraphs(
			"I am interested in the edge between the places we build and the looser order of the natural world.",
			"A piece usually starts on a walk: a trail, a garden in bloom, light breaking through a canopy. In the studio those notes are pared back until the image sits somewhere between a record and an abstraction.",
			"I want the work to be easy to live with and still worth a second look, so that an ordinary wall becomes a place to pause.",
		),
		StudioImages: []string{
			"/images/studio-1.jpg",
			"/images/studio-2.jpg",
			"/images/studio-3.jpg",
		},
		ContactInfo: ContactInfo{
			Email:          "contact@janedoeart.com",
			Instagram:      "@janedoe_art",
			StudioLocation: "Portland Arts District, Oregon",
		},
		Exhibitions: []Exhibition{
			{Year: "2023", Title: "Natural Abstractions", Gallery: "Modern Space Gallery, New York"},
			{Year: "2022", Title: "Color Fields", Gallery: "West Coast Arts, San Francisco"},
			{Year: "2021", Title: "Botanical Studies", Gallery: "Portland Contemporary, Oregon"},
		},
	}
}

func paragraphs(parts ...string) string {
	return strings.Join(parts, "\n\n")
}
