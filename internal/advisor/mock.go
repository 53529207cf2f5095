package advisor

import (
	"context"
	"time"

	"github.com/kalambet/pathcraft/internal/career"
)

// DefaultMockDelay is how long the mock advisor pretends to think.
const DefaultMockDelay = 2 * time.Second

// Mock fabricates a fixed payload after a fixed delay instead of calling a
// remote service. It ignores the profile contents.
type Mock struct {
	delay   time.Duration
	payload career.Recommendations
}

// NewMock returns a Mock serving SamplePayload. A negative delay is treated as zero.
func NewMock(delay time.Duration) *Mock {
	return NewMockWithPayload(delay, SamplePayload())
}

// NewMockWithPayload returns a Mock serving the given payload.
func NewMockWithPayload(delay time.Duration, payload career.Recommendations) *Mock {
	if delay < 0 {
		delay = 0
	}
	return &Mock{delay: delay, payload: payload.Clone()}
}

func (m *Mock) Recommend(ctx context.Context, _ career.Profile) (career.Recommendations, error) {
	if m.delay > 0 {
		timer := time.NewTimer(m.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return career.Recommendations{}, ctx.Err()
		case <-timer.C:
		}
	}
	return m.payload.Clone(), nil
}

// SamplePayload is the literal mock-mode answer.
func SamplePayload() career.Recommendations {
	return career.Recommendations{
		Courses: []career.Resource{
			{Name: "Machine Learning Specialization", Platform: "Coursera", Link: "https://www.coursera.org/specializations/machine-learning-introduction"},
			{Name: "AWS Cloud Practitioner Essentials", Platform: "AWS Skill Builder", Link: "https://explore.skillbuilder.aws/"},
			{Name: "Leadership Principles", Platform: "edX", Link: "https://www.edx.org/"},
		},
		Videos: []career.Resource{
			{Name: "System Design for Beginners", Platform: "YouTube", Link: "https://www.youtube.com/"},
			{Name: "How to Grow from Senior to Staff", Platform: "YouTube", Link: "https://www.youtube.com/"},
		},
		Jobs: []career.JobListing{
			{Title: "Senior Software Engineer", Company: "Acme Corp", Link: "#"},
			{Title: "Technical Lead", Company: "Globex", Link: "#"},
		},
		Roadmap: []career.RoadmapStep{
			{Step: "Month 1-2", Description: "Close the foundational skill gaps with one structured course."},
			{Step: "Month 3-4", Description: "Apply the new skills in a portfolio project and write about it."},
			{Step: "Month 5-6", Description: "Take ownership of a cross-team initiative and start interviewing."},
		},
	}
}
