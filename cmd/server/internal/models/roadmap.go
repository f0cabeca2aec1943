package models

// Task status values.
const (
	StatusNotStarted = "not started"
	StatusInProgress = "in progress"
	StatusCompleted  = "completed"
)

// ValidStatus reports whether s is a known task status.
func ValidStatus(s string) bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Roadmap is a learning path stored as a single document with embedded
// topics and tasks. The ID is a slug derived from the title.
type Roadmap struct {
	ID                 string  `json:"id" bson:"_id"`
	Title              string  `json:"title" bson:"title"`
	Description        string  `json:"description" bson:"description"`
	TotalDurationWeeks int     `json:"total_duration_weeks" bson:"total_duration_weeks"`
	Topics             []Topic `json:"topics" bson:"topics"`
}

// Topic is one section of a roadmap. No independent lifecycle; it lives
// inside its roadmap document.
type Topic struct {
	ID           string   `json:"id" bson:"id" yaml:"id"`
	Title        string   `json:"title" bson:"title" yaml:"title"`
	Description  string   `json:"description" bson:"description" yaml:"description"`
	DurationDays int      `json:"duration_days" bson:"duration_days" yaml:"duration_days"`
	Resources    []string `json:"resources" bson:"resources" yaml:"resources"`
	Tasks        []Task   `json:"tasks" bson:"tasks" yaml:"tasks"`
}

// Task is a single unit of work inside a topic.
type Task struct {
	ID              string   `json:"id" bson:"id" yaml:"id"`
	Task            string   `json:"task" bson:"task" yaml:"task"`
	Description     string   `json:"description" bson:"description" yaml:"description"`
	DurationMinutes int      `json:"duration_minutes" bson:"duration_minutes" yaml:"duration_minutes"`
	Resources       []string `json:"resources" bson:"resources" yaml:"resources"`
	Status          string   `json:"status" bson:"status" yaml:"status"`
	TopicID         string   `json:"topic_id,omitempty" bson:"topic_id,omitempty" yaml:"topic_id,omitempty"`
}

// RoadmapCreate is the request body for creating a roadmap. The ID is
// always generated server-side from the title.
type RoadmapCreate struct {
	Title              string  `json:"title" binding:"required" yaml:"title"`
	Description        string  `json:"description" yaml:"description"`
	TotalDurationWeeks int     `json:"total_duration_weeks" yaml:"total_duration_weeks"`
	Topics             []Topic `json:"topics" yaml:"topics"`
}

// RoadmapUpdate is the request body for a partial update. Nil fields are
// left untouched.
type RoadmapUpdate struct {
	Title              *string  `json:"title"`
	Description        *string  `json:"description"`
	TotalDurationWeeks *int     `json:"total_duration_weeks"`
	Topics             *[]Topic `json:"topics"`
}

// RoadmapPage is one page of a listing.
type RoadmapPage struct {
	Roadmaps []Roadmap `json:"roadmaps"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
	Total    int64     `json:"total"`
	HasMore  bool      `json:"has_more"`
}
