package notes

import (
	"fmt"
	"strings"
)

const systemPrompt = "You are an expert educational assistant that creates clear, comprehensive, and well-structured study notes. " +
	"Your notes should be academically sound, easy to understand, and properly formatted for student use."

// Detail levels.
const (
	DetailBasic        = "Basic"
	DetailIntermediate = "Intermediate"
	DetailAdvanced     = "Advanced"
)

var detailInstructions = map[string]string{
	DetailBasic:        "Create concise, easy-to-understand notes suitable for beginners. Use simple language and focus on the most important concepts.",
	DetailIntermediate: "Create comprehensive notes with moderate detail. Include examples and explanations that help reinforce understanding.",
	DetailAdvanced:     "Create detailed, thorough notes with in-depth explanations, examples, and connections to related concepts.",
}

// noteStyle is the request wording for one note type.
type noteStyle struct {
	lead   string
	format []string
	// plain styles skip the detail-level instruction.
	plain bool
}

var styles = map[string]noteStyle{
	"Summary": {
		lead:   "Please create a well-structured summary of the following topic or content:",
		format: []string{"Clear headings and subheadings", "Key points in bullet format where appropriate", "Important terms or concepts highlighted", "Logical flow from general to specific concepts"},
	},
	"Detailed Explanation": {
		lead:   "Please create a detailed explanation of the following topic:",
		format: []string{"Introduction to the topic", "Step-by-step explanations where applicable", "Examples to illustrate key concepts", "Important definitions and terminology", "Conclusion summarizing main points"},
	},
	"Key Points": {
		lead:   "Please extract and organize the key points from the following content:",
		format: []string{"Main concepts organized hierarchically", "Essential facts and figures", "Important relationships between concepts", "Critical information that would be useful for studying"},
	},
	"Study Guide": {
		lead:   "Please create a comprehensive study guide for the following topic:",
		format: []string{"Learning objectives", "Key concepts and definitions", "Important facts and figures", "Practice questions or review points", "Summary of main takeaways"},
	},
	"Definitions": {
		lead:   "Please identify and define key terms and concepts related to:",
		format: []string{"Clear definitions for each term", "Context for when and how terms are used", "Examples where helpful", "Organization from basic to advanced terms"},
	},
	"Summarize": {
		lead:   "Please summarize the following text content into clear, organized study notes:",
		format: []string{"Main ideas and themes", "Supporting details organized logically", "Key takeaways", "Important facts or data points"},
	},
	"Extract Key Points": {
		lead:   "Please extract the most important points from the following text:",
		format: []string{"Main arguments or ideas", "Supporting evidence", "Critical facts and data", "Conclusions or implications"},
	},
	"Create Study Questions": {
		lead:   "Based on the following content, create study questions along with brief answers:",
		format: []string{"Questions that test understanding of key concepts", "Brief, clear answers to each question", "A mix of factual recall and conceptual understanding questions", "Questions organized from basic to more complex"},
		plain:  true,
	},
	"Organize Content": {
		lead:   "Please organize the following content into well-structured study notes:",
		format: []string{"Logical organization with clear headings", "Information grouped by related concepts", "Hierarchical structure from general to specific", "Easy-to-scan formatting for study purposes"},
	},
	"Answer Questions": {
		lead:   "Please provide comprehensive answers to the following questions and format them as study notes:",
		format: []string{"Clear answers to each question", "Supporting explanations and examples", "Related concepts and connections", "Additional context where helpful"},
	},
}

// NoteTypes lists the supported note types in menu order.
var NoteTypes = []string{
	"Summary", "Detailed Explanation", "Key Points", "Study Guide", "Definitions",
	"Summarize", "Extract Key Points", "Create Study Questions", "Organize Content", "Answer Questions",
}

// buildPrompt renders the request for input. Unknown note types get a
// general study-notes request; unknown detail levels use Intermediate.
func buildPrompt(input, noteType, detail string) string {
	instruction, ok := detailInstructions[detail]
	if !ok {
		instruction = detailInstructions[DetailIntermediate]
	}

	var b strings.Builder
	style, ok := styles[noteType]
	if !ok {
		fmt.Fprintf(&b, "%s\n\nPlease create comprehensive study notes about:\n%s\n\n", instruction, input)
		b.WriteString("Format your response with clear headings, key points, and explanations that would be helpful for studying.")
		return b.String()
	}

	if !style.plain {
		b.WriteString(instruction)
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "%s\n%s\n\nFormat your response with:\n", style.lead, input)
	for _, line := range style.format {
		fmt.Fprintf(&b, "- %s\n", line)
	}
	return strings.TrimSuffix(b.String(), "\n")
}
