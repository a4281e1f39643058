package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkillListUnmarshal_FlatList(t *testing.T) {
	var skills SkillList
	err := json.Unmarshal([]byte(`["Python", "React", "Docker"]`), &skills)
	require.NoError(t, err)
	assert.Equal(t, SkillList{"Python", "React", "Docker"}, skills)
}

func TestSkillListUnmarshal_CategoryMap(t *testing.T) {
	var skills SkillList
	err := json.Unmarshal([]byte(`{"Languages": ["Go", "Python"], "Cloud": ["AWS"]}`), &skills)
	require.NoError(t, err)
	// Categories flatten in lexicographic order.
	assert.Equal(t, SkillList{"AWS", "Go", "Python"}, skills)
}

func TestSkillListUnmarshal_InvalidShape(t *testing.T) {
	var skills SkillList
	err := json.Unmarshal([]byte(`42`), &skills)
	assert.Error(t, err)
}

func TestSkillListMarshal_AlwaysFlat(t *testing.T) {
	skills := SkillList{"Go", "Kubernetes"}
	data, err := json.Marshal(skills)
	require.NoError(t, err)
	assert.JSONEq(t, `["Go", "Kubernetes"]`, string(data))
}

func TestResumeClone_Independent(t *testing.T) {
	summary := "Backend engineer"
	original := &Resume{
		ID:           "resume-1",
		PersonalInfo: PersonalInfo{Name: "John Doe", Summary: &summary},
		Experience: []Experience{
			{Company: "Tech Corp", Position: "Engineer", Description: []string{"Built services"}},
		},
		Skills: SkillList{"Go", "Python"},
	}

	copied, err := original.Clone()
	require.NoError(t, err)

	copied.PersonalInfo.Name = "Jane Doe"
	copied.Skills[0] = "Rust"
	copied.Experience[0].Description[0] = "changed"

	assert.Equal(t, "John Doe", original.PersonalInfo.Name)
	assert.Equal(t, "Go", string(original.Skills[0]))
	assert.Equal(t, "Built services", original.Experience[0].Description[0])
}

func TestResumePlainText(t *testing.T) {
	summary := "Full-stack engineer with Python and React experience"
	resume := &Resume{
		PersonalInfo: PersonalInfo{Name: "John Doe", Summary: &summary},
		Skills:       SkillList{"Python", "FastAPI"},
		Experience: []Experience{
			{Company: "Tech Corp", Position: "Senior Engineer", Description: []string{"Led migration to microservices"}},
		},
		Projects: []Project{
			{Name: "Resume Builder", Description: "Web app", Highlights: []string{"10k users"}, Technologies: []string{"React"}},
		},
		Education: []Education{
			{Institution: "State University", Degree: "BS Computer Science"},
		},
	}

	text := resume.PlainText()
	assert.Contains(t, text, "John Doe")
	assert.Contains(t, text, "Tech Corp")
	assert.Contains(t, text, "Python")
	assert.Contains(t, text, "FastAPI")
	assert.Contains(t, text, "microservices")
	assert.Contains(t, text, "10k users")
	assert.Contains(t, text, "State University")
}

func TestResumePlainText_NilSummary(t *testing.T) {
	resume := &Resume{PersonalInfo: PersonalInfo{Name: "John Doe"}}
	assert.Contains(t, resume.PlainText(), "John Doe")
}
