// merge.go — Merge layout overrides onto a base configuration.
package cards

// MergeConfig combines a base configuration with overrides. Non-zero
// override values win; switches win when set. Geometry is replaced field by
// field, so a zero margin cannot be set through an override. Switching to
// another profile replaces the card style with that profile's before the
// card overrides are applied.
func MergeConfig(base, over Config) Config {
	result := base
	if over.Title != "" {
		result.Title = over.Title
	}
	if over.Profile != "" && canonicalProfile(over.Profile) != canonicalProfile(base.Profile) {
		result.Profile = over.Profile
		if st, ok := ProfileCardStyle(over.Profile); ok {
			result.Profile = canonicalProfile(over.Profile)
			result.Card = st
		}
	}
	if over.PagePreset != "" {
		result.PagePreset = over.PagePreset
	}
	mergeGeometry(&result, over)
	if over.DPI > 0 {
		result.DPI = over.DPI
	}
	if over.DrawBorder != nil {
		result.DrawBorder = over.DrawBorder
	}
	if over.DrawLogo != nil {
		result.DrawLogo = over.DrawLogo
	}
	if over.PageNumbers != nil {
		result.PageNumbers = over.PageNumbers
	}
	if over.Debug != nil {
		result.Debug = over.Debug
	}
	if over.PaperColor != "" {
		result.PaperColor = over.PaperColor
	}
	if over.TextColor != "" {
		result.TextColor = over.TextColor
	}
	if over.BorderColor != "" {
		result.BorderColor = over.BorderColor
	}
	mergeCardStyle(&result.Card, over.Card)
	return result
}

// mergeGeometry applies non-zero page overrides. An explicit page size
// drops the preset so it is not overwritten again by the defaults.
func mergeGeometry(base *Config, over Config) {
	g, o := &base.Page, over.Page
	if o.PageWidth > 0 {
		g.PageWidth = o.PageWidth
		base.PagePreset = over.PagePreset
	}
	if o.PageHeight > 0 {
		g.PageHeight = o.PageHeight
		base.PagePreset = over.PagePreset
	}
	if o.Margin > 0 {
		g.Margin = o.Margin
	}
	if o.Gutter > 0 {
		g.Gutter = o.Gutter
	}
	if o.Cols > 0 {
		g.Cols = o.Cols
	}
	if o.Rows > 0 {
		g.Rows = o.Rows
	}
}

// mergeCardStyle applies non-zero card style overrides.
func mergeCardStyle(base *CardStyle, over CardStyle) {
	for _, f := range []struct {
		dst *float64
		val float64
	}{
		{&base.LogoTop, over.LogoTop},
		{&base.LogoWidth, over.LogoWidth},
		{&base.LogoHeight, over.LogoHeight},
		{&base.NameLeft, over.NameLeft},
		{&base.NameWidth, over.NameWidth},
		{&base.NameENY, over.NameENY},
		{&base.NameARY, over.NameARY},
		{&base.NameENPt, over.NameENPt},
		{&base.NameARPt, over.NameARPt},
		{&base.IconTop, over.IconTop},
		{&base.IconSize, over.IconSize},
		{&base.IconGap, over.IconGap},
		{&base.MacroLeft, over.MacroLeft},
		{&base.MacroTop, over.MacroTop},
		{&base.MacroGap, over.MacroGap},
		{&base.MacroPt, over.MacroPt},
	} {
		if f.val > 0 {
			*f.dst = f.val
		}
	}
	if over.ShowMacros != nil {
		base.ShowMacros = over.ShowMacros
	}
}
