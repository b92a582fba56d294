package headhunter

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/mitchellh/mapstructure"
)

const resumesPath = "/resumes"

type Resumes struct {
	Items []*Resume
}

type Resume struct {
	Title string
	ID    string `json:"id,omitempty"`
}

// ResumeDetails is the part of a résumé that describes what the candidate can
// do.
type ResumeDetails struct {
	ID         string           `json:"id"`
	Title      string           `json:"title"`
	About      string           `json:"skills"`
	SkillSet   []string         `json:"skill_set"`
	Experience []ExperienceItem `json:"experience"`
}

type ExperienceItem struct {
	Company     string `json:"company"`
	Position    string `json:"position"`
	Description string `json:"description"`
}

// GetMineResumes lists résumés of the token owner.
func (c *Client) GetMineResumes(ctx context.Context) (*Resumes, error) {
	endpoint := fmt.Sprintf("%s%s/%s", c.APIURL, resumesPath, mineResumeID)

	items, err := c.getItems(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("getting mine resumes: %w", err)
	}

	var resumes []*Resume
	if err := decode(items, &resumes); err != nil {
		return nil, fmt.Errorf("decoding resumes: %w", err)
	}

	return &Resumes{Items: resumes}, nil
}

func (r *Resumes) Len() int {
	return len(r.Items)
}

func (r *Resumes) Titles() []string {
	titles := make([]string, 0, len(r.Items))
	for _, v := range r.Items {
		titles = append(titles, v.Title)
	}
	return titles
}

func (r *Resumes) FindByTitle(title string) *Resume {
	for _, resume := range r.Items {
		if resume.Title == title {
			return resume
		}
	}
	return nil
}

// GetResume fetches résumé details. The API requires a token for it.
func (c *Client) GetResume(ctx context.Context, id string) (*ResumeDetails, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("resume id is required")
	}
	if c.token == "" {
		return nil, fmt.Errorf("getting resume %s: %w", id, ErrUnauthorized)
	}

	endpoint := fmt.Sprintf("%s%s/%s", c.APIURL, resumesPath, url.PathEscape(id))

	var raw map[string]any
	if err := c.getJSON(ctx, endpoint, nil, &raw); err != nil {
		return nil, fmt.Errorf("getting resume %s: %w", id, err)
	}

	var details ResumeDetails
	if err := decode(raw, &details); err != nil {
		return nil, fmt.Errorf("decoding resume %s: %w", id, err)
	}

	return &details, nil
}

// Text flattens the résumé into a plain candidate document.
func (r *ResumeDetails) Text() string {
	var lines []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			lines = append(lines, s)
		}
	}

	add(r.Title)
	add(htmlToText(r.About))
	if len(r.SkillSet) > 0 {
		add("Skills: " + strings.Join(r.SkillSet, "; "))
	}
	for _, e := range r.Experience {
		add(strings.Join(nonEmpty(e.Position, e.Company), ", "))
		add(htmlToText(e.Description))
	}

	return strings.Join(lines, "\n")
}

// decode maps loosely typed API payloads onto structs through their json tags.
func decode(input, result any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           result,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

func nonEmpty(values ...string) []string {
	out := values[:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
