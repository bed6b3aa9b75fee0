package promptbuild

import (
	"strings"

	"github.com/kayz/adcraft/internal/ad"
)

const extractorRole = "You are a marketing assistant AI specialized in extracting structured ad data from natural language requests."

const structuredShape = `{
  "productName": string,
  "targetAudience": string,
  "keyBenefits": string[],
  "tone": string,
  "callToAction": string
}`

const analysisExample = `User request: "ad for a budgeting app for college students, friendly tone, ends with 'Start saving today'"

Expected JSON:
{
  "productName": "Budgeting app",
  "targetAudience": "College students",
  "keyBenefits": [],
  "tone": "Friendly",
  "callToAction": "Start saving today"
}`

var analysisRules = []string{
	"Use only information explicitly stated in the user request.",
	`If a field is not explicitly stated, return "" for it (or [] for keyBenefits). Never guess or invent values.`,
	"Do not use placeholders such as \"product\" or \"N/A\".",
	"Respond with only the JSON object: no explanation, no markdown, no code fences.",
}

var fallbackRules = []string{
	"Keep every value the user request states explicitly.",
	"Estimate realistic, specific values for every field the request leaves out.",
	"Every string must be filled in and keyBenefits must contain at least two entries.",
	"Do not use placeholders such as \"product\" and do not leave fields empty.",
	"Return only pure, valid JSON: no explanation, no comments, no markdown.",
}

// BuildExtractionPrompt renders the user message sent together with the
// structured extraction function definition.
func BuildExtractionPrompt(userText string) string {
	return "Analyze the following ad request and extract structured data: " + quoted(userText)
}

// BuildPromptAnalysis renders the strict extraction prompt. The model must
// leave fields empty rather than invent them, so under-specified requests
// show up as weak data.
func BuildPromptAnalysis(userText string) string {
	var sections []section
	sections = appendSection(sections, "", extractorRole)
	sections = appendSection(sections, "User request", quoted(userText))
	sections = appendSection(sections, "Return only a valid pure JSON object in the format", structuredShape)
	sections = appendSection(sections, "Rules", bulletList(analysisRules))
	sections = appendSection(sections, "Example", analysisExample)
	return renderSections(sections)
}

// BuildFallbackPrompt renders the best-effort estimation prompt. Unlike
// BuildPromptAnalysis it asks the model to fill gaps with plausible values.
func BuildFallbackPrompt(userText string) string {
	var sections []section
	sections = appendSection(sections, "", extractorRole)
	sections = appendSection(sections, "User request", quoted(userText))
	sections = appendSection(sections, "", "Generate a JSON object with the following information, estimating whatever is missing:")
	sections = appendSection(sections, "", structuredShape)
	sections = appendSection(sections, "Rules", bulletList(fallbackRules))
	return renderSections(sections)
}

// BuildTextPromptFromStructured renders the copywriting prompt.
func BuildTextPromptFromStructured(data ad.StructuredData) string {
	details := bulletList([]string{
		"Product: " + data.ProductName,
		"Audience: " + data.TargetAudience,
		"Benefits: " + strings.Join(data.KeyBenefits, ", "),
		"Tone: " + data.Tone,
		"CTA: " + data.CallToAction,
	})

	var sections []section
	sections = appendSection(sections, "", "You are a professional Facebook ads copywriter.")
	sections = appendSection(sections, "Create a compelling, short Facebook ad using the following data", details)
	sections = appendSection(sections, "", "Keep it around 3 short sentences and start with an attention-grabbing phrase or emoji if appropriate.")
	return renderSections(sections)
}

// BuildImagePromptFromStructured renders the product photo prompt.
func BuildImagePromptFromStructured(subject ad.ImageSubject) string {
	style := bulletList([]string{
		"Photorealistic, shallow depth of field",
		"Natural or studio lighting",
		"Clean, white or soft neutral background",
		"No people, hands, logos, or text in the image",
	})

	var sections []section
	sections = appendSection(sections, "", "Create a high-quality product photo for a Facebook ad.")
	sections = appendSection(sections, "", "Subject: "+subject.ProductName+"\nKey attributes: "+strings.Join(subject.KeyBenefits, ", "))
	sections = appendSection(sections, "Style", style)
	sections = appendSection(sections, "", "The image should focus on the product and be visually suitable for use in Facebook Ads.")
	return renderSections(sections)
}
