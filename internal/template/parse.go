package template

import (
	"encoding/json"
	"fmt"
)

// ParseJSON decodes a JSON document into a Config.
func ParseJSON(data []byte) (*Config, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid template JSON: %w", err)
	}
	return Parse(raw), nil
}

// Parse decodes a JSON-compatible tree into a Config. Parsing is lenient:
// missing or oddly shaped parts decode to zero values and are reported later
// by the validator, never here.
func Parse(raw map[string]interface{}) *Config {
	if raw == nil {
		raw = map[string]interface{}{}
	}

	cfg := &Config{
		raw:       raw,
		Variables: map[string]Variable{},
		Styling:   mapValue(raw, "styling"),
	}

	cfg.Metadata = parseMetadata(mapValue(raw, "metadata"))
	cfg.Layout = parseLayout(mapValue(raw, "layout"))
	cfg.QRCode = parseQRConfig(mapValue(raw, "qr_code"))

	for _, p := range sliceValue(raw, "pages") {
		pm, ok := p.(map[string]interface{})
		if !ok {
			// Malformed page entries are skipped; the validator reports them.
			continue
		}
		cfg.Pages = append(cfg.Pages, parsePage(pm))
	}

	for name, v := range mapValue(raw, "variables") {
		vm, _ := v.(map[string]interface{})
		cfg.Variables[name] = Variable{
			Type:     str(vm, "type"),
			Default:  vm["default"],
			Required: boolean(vm, "required"),
		}
	}

	return cfg
}

func parseMetadata(m map[string]interface{}) Metadata {
	md := Metadata{
		Name:        str(m, "name"),
		Version:     str(m, "version"),
		Description: str(m, "description"),
		Tags:        strSlice(m, "tags"),
	}
	extra := map[string]interface{}{}
	for k, v := range m {
		switch k {
		case "name", "version", "description", "tags":
		default:
			extra[k] = v
		}
	}
	if len(extra) > 0 {
		md.Extra = extra
	}
	return md
}

func parseLayout(m map[string]interface{}) Layout {
	margins := mapValue(m, "margins")
	return Layout{
		PageSize:    str(m, "page_size"),
		Orientation: str(m, "orientation"),
		Margins: Margins{
			Top:    margins["top"],
			Bottom: margins["bottom"],
			Left:   margins["left"],
			Right:  margins["right"],
		},
	}
}

func parseQRConfig(m map[string]interface{}) QRConfig {
	return QRConfig{
		Enabled:    boolean(m, "enabled"),
		Position:   str(m, "position"),
		DataSource: str(m, "data_source"),
		CustomData: str(m, "custom_data"),
		Size:       m["size"],
	}
}

func parsePage(m map[string]interface{}) Page {
	page := Page{Name: str(m, "name")}
	for _, s := range sliceValue(m, "sections") {
		sm, ok := s.(map[string]interface{})
		if !ok {
			continue
		}
		rawType := str(sm, "type")
		page.Sections = append(page.Sections, Section{
			Type:    ParseSectionType(rawType),
			RawType: rawType,
			Content: mapValue(sm, "content"),
		})
	}
	return page
}

// DayCountHint returns the template's own suggestion for how many training
// days sample data should contain, or 0 when the template carries none. The
// hint may live at the document root or inside metadata.
func (c *Config) DayCountHint() int {
	if n, ok := intValue(c.raw["dias_semana"]); ok {
		return n
	}
	if c.Metadata.Extra != nil {
		if n, ok := intValue(c.Metadata.Extra["dias_semana"]); ok {
			return n
		}
	}
	return 0
}

// SectionCount returns the total number of sections across all pages.
func (c *Config) SectionCount() int {
	total := 0
	for _, p := range c.Pages {
		total += len(p.Sections)
	}
	return total
}
