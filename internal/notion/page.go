package notion

// Page is a Notion page with the property values the service reads back.
type Page struct {
	ID         string                   `json:"id"`
	Properties map[string]PropertyValue `json:"properties"`
}

// PropertyValue is a decoded page property. Only the variants the service
// reads are modeled; the rest decode to their zero values.
type PropertyValue struct {
	Type     string          `json:"type"`
	Number   *float64        `json:"number,omitempty"`
	Checkbox *bool           `json:"checkbox,omitempty"`
	RichText []RichTextSpan  `json:"rich_text,omitempty"`
	Title    []RichTextSpan  `json:"title,omitempty"`
	Date     *DateValue      `json:"date,omitempty"`
	Select   *SelectValue    `json:"select,omitempty"`
	Relation []RelationValue `json:"relation,omitempty"`
}

// RichTextSpan is one span of a title or rich_text property.
type RichTextSpan struct {
	PlainText string `json:"plain_text"`
}

// DateValue is the payload of a date property.
type DateValue struct {
	Start string  `json:"start"`
	End   *string `json:"end"`
}

// SelectValue is the payload of a select property.
type SelectValue struct {
	Name string `json:"name"`
}

// RelationValue is one linked page of a relation property.
type RelationValue struct {
	ID string `json:"id"`
}

// NumberProp returns the value of a number property, or nil when the
// property is missing or empty.
func (p *Page) NumberProp(name string) *float64 {
	if pv, ok := p.Properties[name]; ok {
		return pv.Number
	}
	return nil
}

// RichTextProp returns the concatenated plain text of a rich_text
// property, or "" when the property is missing or empty.
func (p *Page) RichTextProp(name string) string {
	pv, ok := p.Properties[name]
	if !ok {
		return ""
	}
	var out string
	for _, span := range pv.RichText {
		out += span.PlainText
	}
	return out
}

// TitleProp returns the concatenated plain text of the title property.
func (p *Page) TitleProp(name string) string {
	pv, ok := p.Properties[name]
	if !ok {
		return ""
	}
	var out string
	for _, span := range pv.Title {
		out += span.PlainText
	}
	return out
}

// SelectProp returns the selected option name, or "" when unset.
func (p *Page) SelectProp(name string) string {
	if pv, ok := p.Properties[name]; ok && pv.Select != nil {
		return pv.Select.Name
	}
	return ""
}

// CheckboxProp returns a checkbox value, false when unset.
func (p *Page) CheckboxProp(name string) bool {
	if pv, ok := p.Properties[name]; ok && pv.Checkbox != nil {
		return *pv.Checkbox
	}
	return false
}

// DateProp returns the start of a date property, or "" when unset.
func (p *Page) DateProp(name string) string {
	if pv, ok := p.Properties[name]; ok && pv.Date != nil {
		return pv.Date.Start
	}
	return ""
}
