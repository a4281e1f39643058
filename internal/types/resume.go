// Package types defines the canonical resume data model shared across the
// tailoring pipeline, renderers, and the HTTP API.
package types

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Resume is the root document entity. The JSON field names form the wire
// contract shared with the browser extension and the LLM prompt, so they are
// camelCase and must not change.
type Resume struct {
	ID             string          `json:"id"`
	Name           string          `json:"name,omitempty"`
	PersonalInfo   PersonalInfo    `json:"personalInfo"`
	Experience     []Experience    `json:"experience"`
	Education      []Education     `json:"education"`
	Skills         SkillList       `json:"skills"`
	Projects       []Project       `json:"projects"`
	Certifications []Certification `json:"certifications"`
	CreatedAt      *string         `json:"createdAt"`
	UpdatedAt      *string         `json:"updatedAt"`
}

// PersonalInfo holds identity and contact fields. Summary is nullable: a
// resume without a professional summary is valid input.
type PersonalInfo struct {
	Name     string  `json:"name"`
	Email    string  `json:"email,omitempty"`
	Phone    string  `json:"phone,omitempty"`
	Location string  `json:"location,omitempty"`
	LinkedIn string  `json:"linkedin,omitempty"`
	Website  string  `json:"website,omitempty"`
	Summary  *string `json:"summary"`
}

// Experience is a single work-history entry with ordered description bullets.
type Experience struct {
	Company     string   `json:"company"`
	Position    string   `json:"position"`
	Location    string   `json:"location,omitempty"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate,omitempty"`
	Description []string `json:"description"`
}

// Education is a single education entry.
type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	GPA         string `json:"gpa,omitempty"`
}

// Project is a single project entry.
type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Highlights   []string `json:"highlights"`
	Technologies []string `json:"technologies"`
	Link         string   `json:"link,omitempty"`
}

// Certification is a single certification entry.
type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer,omitempty"`
	Date   string `json:"date,omitempty"`
}

// SkillList is an ordered list of skills that accepts two wire shapes:
// a flat JSON array of strings, or a mapping from category name to a list of
// strings. Callers deliver either shape interchangeably; internally the list
// is always flat. Category maps are flattened in lexicographic category order
// so decoding is deterministic.
type SkillList []string

// UnmarshalJSON accepts both supported wire shapes.
func (s *SkillList) UnmarshalJSON(data []byte) error {
	var flat []string
	if err := json.Unmarshal(data, &flat); err == nil {
		*s = flat
		return nil
	}

	var categorized map[string][]string
	if err := json.Unmarshal(data, &categorized); err != nil {
		return fmt.Errorf("skills must be a list of strings or a category map: %w", err)
	}

	categories := make([]string, 0, len(categorized))
	for category := range categorized {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var merged []string
	for _, category := range categories {
		merged = append(merged, categorized[category]...)
	}
	*s = merged
	return nil
}

// Clone returns a deep copy of the resume. The tailoring pipeline operates on
// copies only; the caller's resume is never mutated.
func (r *Resume) Clone() (*Resume, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize resume: %w", err)
	}
	var copied Resume
	if err := json.Unmarshal(data, &copied); err != nil {
		return nil, fmt.Errorf("failed to copy resume: %w", err)
	}
	return &copied, nil
}

// PlainText flattens the resume's free-text fields into a single string for
// keyword analysis: name, summary, skills, experience, projects, education.
func (r *Resume) PlainText() string {
	parts := []string{r.PersonalInfo.Name}
	if r.PersonalInfo.Summary != nil {
		parts = append(parts, *r.PersonalInfo.Summary)
	}
	parts = append(parts, strings.Join(r.Skills, " "))

	for _, exp := range r.Experience {
		parts = append(parts, exp.Company, exp.Position)
		parts = append(parts, exp.Description...)
	}
	for _, proj := range r.Projects {
		parts = append(parts, proj.Name, proj.Description)
		parts = append(parts, proj.Highlights...)
		parts = append(parts, proj.Technologies...)
	}
	for _, edu := range r.Education {
		parts = append(parts, edu.Institution, edu.Degree)
	}

	return strings.Join(parts, " ")
}
