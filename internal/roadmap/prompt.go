package roadmap

import "fmt"

// SystemPrompt asks the model for a single JSON object in the shape Parse
// understands.
const SystemPrompt = `You are an expert learning coach who designs practical study roadmaps.
Respond with a single JSON object and nothing else: no markdown, no code fences, no commentary.
Use exactly this shape:
{
  "planTitle": string,
  "focus": string,
  "outcome": string,
  "estimatedDurationWeeks": number,
  "milestones": [
    {
      "title": string,
      "description": string,
      "estimatedDuration": string,
      "steps": [
        {
          "title": string,
          "description": string,
          "resources": [
            { "type": "link" | "video" | "book", "title": string, "url": string }
          ]
        }
      ]
    }
  ]
}
List milestones and steps in the order they should be studied. Prefer free, well-known resources and only include URLs you are confident exist.`

// UserPrompt describes what the learner wants.
func UserPrompt(focus, outcome string) string {
	return fmt.Sprintf("Create a study roadmap.\nFocus: %s\nDesired outcome: %s", focus, outcome)
}
