package channels

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category is the closed set of learning categories a channel belongs to.
type Category string

const (
	CategoryProductivity Category = "PRODUCTIVITY · FOCUS · SYSTEMS"
	CategoryTech         Category = "TECH · CODING · AI"
	CategoryEducational  Category = "EDUCATIONAL · SCIENCE · ACADEMIC"
	CategoryFinance      Category = "FINANCE · ECONOMICS · CAREER"
	CategoryThinking     Category = "THINKING · PHILOSOPHY · LONG-FORM"
)

// Channel describes one whitelisted content source. At least one of ID or
// Handle must be populated so the sync engine can resolve a stable channel id.
type Channel struct {
	Name         string   `yaml:"name" json:"name"`
	Category     Category `yaml:"category" json:"category"`
	Description  string   `yaml:"description" json:"description"`
	Badge        string   `yaml:"badge" json:"badge"`
	ID           string   `yaml:"id,omitempty" json:"id,omitempty"`
	Handle       string   `yaml:"handle,omitempty" json:"handle,omitempty"`
	ThumbnailURL string   `yaml:"thumbnail_url,omitempty" json:"thumbnailUrl,omitempty"`
}

// Identifier returns the value the sync engine should resolve: the stable id
// when configured, otherwise the human handle.
func (c Channel) Identifier() string {
	if c.ID != "" {
		return c.ID
	}
	return c.Handle
}

var validCategories = map[Category]struct{}{
	CategoryProductivity: {},
	CategoryTech:         {},
	CategoryEducational:  {},
	CategoryFinance:      {},
	CategoryThinking:     {},
}

// Validate checks that every channel can be resolved and carries a known category.
func Validate(list []Channel) error {
	for i, c := range list {
		if strings.TrimSpace(c.ID) == "" && strings.TrimSpace(c.Handle) == "" {
			return fmt.Errorf("channel %d (%q): id or handle is required", i, c.Name)
		}
		if _, ok := validCategories[c.Category]; !ok {
			return fmt.Errorf("channel %d (%q): unknown category %q", i, c.Name, c.Category)
		}
	}
	return nil
}

type fileFormat struct {
	Channels []Channel `yaml:"channels"`
}

// Load reads a channel whitelist from a YAML file. The configured order is
// preserved; it drives cold-start selection and score tie-breaks.
func Load(path string) ([]Channel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read channels file: %w", err)
	}

	var parsed fileFormat
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse channels file: %w", err)
	}
	if len(parsed.Channels) == 0 {
		return nil, errors.New("channels file defines no channels")
	}
	if err := Validate(parsed.Channels); err != nil {
		return nil, err
	}

	return parsed.Channels, nil
}

// Default returns the built-in channel whitelist.
func Default() []Channel {
	return []Channel{
		{Name: "Thomas Frank", Category: CategoryProductivity, Handle: "ThomasFrank", Description: "Study techniques, notion systems, and habit building.", Badge: "Systems · Notion"},
		{Name: "Matt D'Avella", Category: CategoryProductivity, Handle: "MattDavella", Description: "Minimalism, habit experiments, and creative filmmaking.", Badge: "Minimalism · Habits"},
		{Name: "Fireship", Category: CategoryTech, Handle: "Fireship", Description: "High-intensity code tutorials and tech news in 100 seconds.", Badge: "Web Dev · Fast"},
		{Name: "Traversy Media", Category: CategoryTech, Handle: "TraversyMedia", Description: "Comprehensive crash courses on web technologies.", Badge: "Tutorials · Full Stack"},
		{Name: "Computerphile", Category: CategoryTech, Handle: "Computerphile", Description: "Deep dives into the algorithms and history of computing.", Badge: "CS Fundamentals"},
		{Name: "Two Minute Papers", Category: CategoryTech, Handle: "TwoMinutePapers", Description: "Showcasing the latest breakthroughs in AI research.", Badge: "AI Research"},
		{Name: "freeCodeCamp.org", Category: CategoryTech, Handle: "freeCodeCamp", Description: "Full-length courses on virtually every programming topic.", Badge: "Courseware"},
		{Name: "Take U Forward", Category: CategoryTech, Handle: "takeUforward", Description: "DSA, algorithmic patterns, and interview prep.", Badge: "Algorithms · Interview"},
		{Name: "Khan Academy", Category: CategoryEducational, Handle: "khanacademy", Description: "World-class education for anyone, anywhere.", Badge: "K-12 · Foundation"},
		{Name: "3Blue1Brown", Category: CategoryEducational, Handle: "3blue1brown", Description: "Visual explanations of advanced mathematics.", Badge: "Math · Conceptual"},
		{Name: "Veritasium", Category: CategoryEducational, Handle: "veritasium", Description: "The element of truth in videos about science and engineering.", Badge: "Physics · Exploration"},
		{Name: "Kurzgesagt", Category: CategoryEducational, Handle: "kurzgesagt", Description: "Optimistic nihilism and beautiful science animation.", Badge: "Science · Animated"},
		{Name: "MIT OpenCourseWare", Category: CategoryEducational, Handle: "mitocw", Description: "Actual lectures from MIT's undergraduate and graduate courses.", Badge: "University · Deep"},
		{Name: "CrashCourse", Category: CategoryEducational, Handle: "crashcourse", Description: "Refresher courses on history, science, and literature.", Badge: "Overview · History"},
		{Name: "Physics Wallah", Category: CategoryEducational, Handle: "PhysicsWallah", Description: "Making physics accessible to every student.", Badge: "Physics · JEE"},
		{Name: "JEE Nexus by Unacademy", Category: CategoryEducational, Handle: "jeenexus", Description: "Strategic guidance and preparation for JEE aspirants.", Badge: "JEE · Strategy"},
		{Name: "Next Toppers - 11th Science", Category: CategoryEducational, Handle: "nexttoppersscience", Description: "Comprehensive 11th grade science curriculum coverage.", Badge: "11th Science · Basics"},
		{Name: "Abdul Bari", Category: CategoryEducational, Handle: "abdul_bari", Description: "Mastering algorithms, data structures, and computer science.", Badge: "CS · Algorithms"},
		{Name: "LearnSATMath", Category: CategoryEducational, Handle: "learnsatmath", Description: "Focused SAT math preparation and practice problems.", Badge: "SAT · Math"},
		{Name: "BrainStation", Category: CategoryEducational, Handle: "brain_station_videos", Description: "Educational animations and explanations on various topics.", Badge: "Education · Variety"},
		{Name: "Your SAT Coach", Category: CategoryEducational, Handle: "yoursatcoach", Description: "Expert tips, strategies, and coaching for the SAT.", Badge: "SAT · Tips"},
		{Name: "PW - 11th Science", Category: CategoryEducational, Handle: "pwudayclass11th", Description: "Physics Wallah's dedicated channel for 11th science.", Badge: "11th · Physics"},
		{Name: "The Organic Chemistry Tutor", Category: CategoryEducational, Handle: "theorganicchemistrytutor", Description: "Tutorials on chemistry, math, physics, and biology.", Badge: "STEM · Help"},
		{Name: "Gohar Khan", Category: CategoryEducational, Handle: "goharsguide", Description: "Study tips, hacks, and advice for students.", Badge: "Study Tips · Guide"},
		{Name: "FloatHeadPhysics", Category: CategoryEducational, Handle: "Mahesh_Shenoy", Description: "Visual and intuitive explanations of physics concepts.", Badge: "Physics · Science"},
		{Name: "The Plain Bagel", Category: CategoryFinance, Handle: "ThePlainBagel", Description: "Financial education without the hype.", Badge: "Investing · Basics"},
		{Name: "Patrick Boyle", Category: CategoryFinance, Handle: "PatrickBoyleOnFinance", Description: "Quantitative finance and market history/commentary.", Badge: "Markets · History"},
		{Name: "Economics Explained", Category: CategoryFinance, Handle: "EconomicsExplained", Description: "Explaining the economic forces driving the world.", Badge: "Macro · Economics"},
		{Name: "Vsauce", Category: CategoryThinking, Handle: "Vsauce", Description: "Exploring the curiosities of our world and mind.", Badge: "Curiosity · Science"},
		{Name: "The School of Life", Category: CategoryThinking, Handle: "theschooloflifetv", Description: "Emotional intelligence and philosophy for daily life.", Badge: "Philosophy · EQ"},
		{Name: "Lex Fridman", Category: CategoryThinking, Handle: "lexfridman", Description: "Conversations about AI, science, nature, and power.", Badge: "Podcast · Deep"},
	}
}
