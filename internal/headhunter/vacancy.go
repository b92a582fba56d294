package headhunter

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

const vacanciesPath = "/vacancies"

type Vacancy struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	Employer struct {
		ID   string `json:"id,omitempty"`
		Name string `json:"name,omitempty"`
	} `json:"employer,omitempty"`
	Experience struct {
		ID   string `json:"id,omitempty"`
		Name string `json:"name,omitempty"`
	} `json:"experience,omitempty"`
	AlternateURL string     `json:"alternate_url,omitempty"`
	Description  string     `json:"description,omitempty"`
	KeySkills    []KeySkill `json:"key_skills,omitempty"`
	Archived     bool       `json:"archived,omitempty"`
}

type KeySkill struct {
	Name string `json:"name,omitempty"`
}

// GetVacancy fetches a single vacancy with its full description.
func (c *Client) GetVacancy(ctx context.Context, id string) (*Vacancy, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("vacancy id is required")
	}

	endpoint := fmt.Sprintf("%s%s/%s", c.APIURL, vacanciesPath, url.PathEscape(id))

	var vacancy Vacancy
	if err := c.getJSON(ctx, endpoint, nil, &vacancy); err != nil {
		return nil, fmt.Errorf("getting vacancy %s: %w", id, err)
	}

	return &vacancy, nil
}

// Text renders the vacancy as a plain requirement document: the title, the
// description and a key skills line.
func (v *Vacancy) Text() string {
	parts := make([]string, 0, 3)
	if name := strings.TrimSpace(v.Name); name != "" {
		parts = append(parts, name)
	}
	if description := htmlToText(v.Description); description != "" {
		parts = append(parts, description)
	}
	if skills := v.Skills(); len(skills) > 0 {
		parts = append(parts, "Key skills: "+strings.Join(skills, "; "))
	}
	return strings.Join(parts, "\n")
}

func (v *Vacancy) Skills() []string {
	skills := make([]string, 0, len(v.KeySkills))
	for _, s := range v.KeySkills {
		if name := strings.TrimSpace(s.Name); name != "" {
			skills = append(skills, name)
		}
	}
	return skills
}
