// Package ad holds the structured representation of an ad request and the
// generated result.
package ad

// StructuredData is the normalized form of a free-text ad request.
type StructuredData struct {
	ProductName    string   `json:"productName" description:"Name of the product or service being advertised" validate:"usable,single_paragraph"`
	TargetAudience string   `json:"targetAudience" description:"Who the ad is aimed at" validate:"usable"`
	KeyBenefits    []string `json:"keyBenefits" description:"Main benefits of the product, most important first" validate:"min=1,dive,nonblank"`
	Tone           string   `json:"tone" description:"Voice and tone of the ad copy" validate:"usable"`
	CallToAction   string   `json:"callToAction" description:"Short call to action closing the ad" validate:"usable,single_paragraph"`
}

// ImageSubject is the subset of StructuredData used to prompt for an image.
type ImageSubject struct {
	ProductName string
	KeyBenefits []string
}

// ImageSubject returns the fields relevant to image generation.
func (d StructuredData) ImageSubject() ImageSubject {
	return ImageSubject{
		ProductName: d.ProductName,
		KeyBenefits: d.KeyBenefits,
	}
}

// Generated is the final ad returned to callers.
type Generated struct {
	Text     string `json:"text"`
	ImageURL string `json:"imageUrl"`
}
