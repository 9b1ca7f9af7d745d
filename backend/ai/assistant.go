package ai

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"aulavirtual/backend/models"
)

// Catalog is what the assistant may talk about for one user.
type Catalog struct {
	UserType models.UserType
	Courses  []models.Course
	Modules  []models.Module
	Tasks    []models.Task
}

type subject struct {
	name    string
	kind    string
	context func() string
}

// BuildContext looks for the longest course, task or module name contained in the message.
// When nothing matches it falls back to an overview of everything in the catalog.
func BuildContext(cat Catalog, message string) string {
	courseNames := make(map[string]string, len(cat.Courses))
	for _, c := range cat.Courses {
		courseNames[c.ID.String()] = c.Name
	}

	var subjects []subject
	for _, c := range cat.Courses {
		c := c
		subjects = append(subjects, subject{name: c.Name, kind: "course", context: func() string { return describeCourse(c, cat) }})
	}
	for _, t := range cat.Tasks {
		t := t
		subjects = append(subjects, subject{name: t.Title, kind: "task", context: func() string {
			return describeTask(t, courseNames[t.CourseID.String()])
		}})
	}
	for _, m := range cat.Modules {
		m := m
		subjects = append(subjects, subject{name: m.Name, kind: "module", context: func() string {
			return fmt.Sprintf("Module %q of course %q: %s (%s)", m.Name, courseNames[m.CourseID.String()], m.Description, m.URL)
		}})
	}
	sort.SliceStable(subjects, func(i, j int) bool {
		return len(subjects[i].name) > len(subjects[j].name)
	})

	lower := strings.ToLower(message)
	for _, s := range subjects {
		if s.name != "" && strings.Contains(lower, strings.ToLower(s.name)) {
			return fmt.Sprintf("The user is asking about the %s %q.\n%s", s.kind, s.name, s.context())
		}
	}
	return overview(cat)
}

func describeCourse(c models.Course, cat Catalog) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Course %q (%s, %s, %s): %s\nRuns %s to %s, %d/%d enrolled.\n",
		c.Name, c.Category, c.Level, c.Modality, c.Description,
		c.StartDate.Format("2006-01-02"), c.EndDate.Format("2006-01-02"), c.Enrolled, c.Capacity)
	if len(c.Prerequisites) > 0 {
		fmt.Fprintf(&b, "Prerequisites: %s\n", strings.Join(c.Prerequisites, ", "))
	}
	for _, m := range cat.Modules {
		if m.CourseID == c.ID {
			fmt.Fprintf(&b, "- module %d: %s\n", m.Order, m.Name)
		}
	}
	for _, t := range cat.Tasks {
		if t.CourseID == c.ID {
			fmt.Fprintf(&b, "- %s %q due %s\n", t.Type, t.Title, t.DueDate.Format(time.RFC3339))
		}
	}
	return b.String()
}

func describeTask(t models.Task, course string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %q in course %q, due %s.\n%s\n", t.Type, t.Title, course, t.DueDate.Format(time.RFC3339), t.Description)
	if t.Instructions != "" {
		fmt.Fprintf(&b, "Instructions: %s\n", t.Instructions)
	}
	if t.AllowLate {
		fmt.Fprintf(&b, "Late submissions accepted (policy: %s).\n", t.LatePolicy)
	} else {
		b.WriteString("Late submissions are not accepted.\n")
	}
	if t.HasTimer && t.TimeLimitMinutes != nil {
		fmt.Fprintf(&b, "Timed: %d minutes once started.\n", *t.TimeLimitMinutes)
	}
	return b.String()
}

func overview(cat Catalog) string {
	if len(cat.Courses) == 0 {
		return fmt.Sprintf("The user is a %s with no courses yet.", cat.UserType)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "The user is a %s. Their courses:\n", cat.UserType)
	for _, c := range cat.Courses {
		fmt.Fprintf(&b, "- %s (%s, starts %s)\n", c.Name, c.Category, c.StartDate.Format("2006-01-02"))
	}
	if len(cat.Tasks) > 0 {
		b.WriteString("Tasks:\n")
		for _, t := range cat.Tasks {
			fmt.Fprintf(&b, "- %s %q due %s\n", t.Type, t.Title, t.DueDate.Format("2006-01-02"))
		}
	}
	return b.String()
}

const assistantInstructions = `You are the virtual classroom assistant. Answer in the language of the question,
briefly and only about the user's courses, modules and tasks. Use the context below; if the answer
is not in it, say so.`

// ChatMessages assembles system instructions, context, history and the new message.
func ChatMessages(context string, history []Message, message string) []Message {
	msgs := make([]Message, 0, len(history)+2)
	msgs = append(msgs, Message{Role: RoleSystem, Content: assistantInstructions + "\n\nContext:\n" + context})
	for _, h := range history {
		if h.Role == RoleUser || h.Role == RoleAssistant {
			msgs = append(msgs, h)
		}
	}
	return append(msgs, Message{Role: RoleUser, Content: message})
}

const summaryInstructions = `Summarise the following student feedback about a course for its instructors.
Group recurring praise and complaints, mention the average rating, and keep it under 150 words.`

// SummaryMessages builds the request used for course feedback summaries.
func SummaryMessages(course string, feedback []models.CourseFeedback) []Message {
	var b strings.Builder
	var total int
	for _, f := range feedback {
		total += f.Punctuation
		fmt.Fprintf(&b, "- (%d/5) %s\n", f.Punctuation, f.Comment)
	}
	var avg float64
	if len(feedback) > 0 {
		avg = float64(total) / float64(len(feedback))
	}
	return []Message{
		{Role: RoleSystem, Content: summaryInstructions},
		{Role: RoleUser, Content: fmt.Sprintf("Course: %s\nAverage rating: %.2f\nFeedback:\n%s", course, avg, b.String())},
	}
}
