package career

// Profile is the career description a user submits for analysis.
// It lives only in memory; nothing persists it.
type Profile struct {
	Role            string `json:"role" validate:"required"`
	Skills          string `json:"skills" validate:"required"`
	SkillGaps       string `json:"skill_gaps" validate:"required"`
	CareerAmbitions string `json:"career_ambitions" validate:"required"`
	Language        string `json:"language" validate:"required"`
}

// Recommendations is the advisor's answer for one Profile submission.
// A new snapshot replaces the previous one wholesale.
type Recommendations struct {
	Courses []Resource    `json:"courses"`
	Videos  []Resource    `json:"videos"`
	Jobs    []JobListing  `json:"jobs"`
	Roadmap []RoadmapStep `json:"roadmap"`
}

// Resource is a course or a video.
type Resource struct {
	Name     string `json:"name"`
	Platform string `json:"platform"`
	Link     string `json:"link"`
}

type JobListing struct {
	Title   string `json:"title"`
	Company string `json:"company"`
	Link    string `json:"link"`
}

type RoadmapStep struct {
	Step        string `json:"step"`
	Description string `json:"description"`
}

// Empty reports whether there is nothing to show.
func (r Recommendations) Empty() bool {
	return len(r.Courses) == 0 && len(r.Videos) == 0 && len(r.Jobs) == 0 && len(r.Roadmap) == 0
}

// Clone returns a copy that shares no backing arrays with r.
// Nil sections become empty slices.
func (r Recommendations) Clone() Recommendations {
	return Recommendations{
		Courses: append(make([]Resource, 0, len(r.Courses)), r.Courses...),
		Videos:  append(make([]Resource, 0, len(r.Videos)), r.Videos...),
		Jobs:    append(make([]JobListing, 0, len(r.Jobs)), r.Jobs...),
		Roadmap: append(make([]RoadmapStep, 0, len(r.Roadmap)), r.Roadmap...),
	}
}
