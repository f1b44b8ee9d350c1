package theme

import (
	"strings"

	"inkblog/cssgen"
)

// pageLayout is the mode-independent layout of the page chrome.
const pageLayout = `.page-main-content {
  position: relative;
  min-width: 0;
  flex: 1;
  max-width: 1536px;
  padding-top: 2rem;
  padding-bottom: 2rem;
  margin: 0 auto;
  width: 100%;
}

.page-content-wrapper {
  display: flex;
  flex-direction: column;
  gap: 2rem;
}

@media (min-width: 1024px) {
  .page-content-wrapper {
    flex-direction: row;
    gap: 3rem;
  }
}

.page-content-container {
  flex: 1;
  min-width: 0;
  max-width: 48rem;
  margin-left: auto;
  margin-right: auto;
  width: 100%;
  padding-left: 1rem;
  padding-right: 1rem;
}

@media (min-width: 640px) {
  .page-content-container {
    padding-left: 1.5rem;
    padding-right: 1.5rem;
  }
}

@media (min-width: 1024px) {
  .page-content-container {
    margin-left: 0;
    margin-right: auto;
  }
}

.page-toc-sidebar {
  display: none;
  width: 14rem;
  flex-shrink: 0;
}

@media (min-width: 1024px) {
  .page-toc-sidebar {
    display: block;
  }
}

`

// Rules returns the themed rules for the given mode.
func (t PageTheme) Rules(dark bool) []cssgen.Rule {
	s := t.Styles
	background := s.PageBackground.Pick(dark)
	if s.PageBackgroundGradient != nil {
		background = s.PageBackgroundGradient.Pick(dark)
	}

	active := cssgen.Style{}.
		With(cssgen.Color, s.TOC.Link.Active.Color.Pick(dark)).
		With(cssgen.Background, s.TOC.Link.Active.Background.Pick(dark)).
		With(cssgen.FontWeight, s.TOC.Link.Active.FontWeight)
	if v := s.TOC.Link.Active.PaddingLeft; v != nil {
		active = active.With(cssgen.PaddingLeft, v.Pick(dark))
	}
	if v := s.TOC.Link.Active.BorderLeft; v != nil {
		active = active.With(cssgen.BorderLeft, v.Pick(dark))
	}

	return []cssgen.Rule{
		{
			Selector: ".page-theme-container",
			Config: cssgen.Style{}.
				With(cssgen.Background, background).
				With(cssgen.Transition, "background 0.3s ease"),
		},
		{
			Selector: ".toc-container",
			Config: cssgen.Style{}.
				With(cssgen.Background, s.TOC.Container.Background.Pick(dark)).
				With(cssgen.BackdropFilter, s.TOC.Container.BackdropFilter).
				With(cssgen.Border, s.TOC.Container.Border.Pick(dark)).
				With(cssgen.BorderRadius, s.TOC.Container.BorderRadius).
				With(cssgen.BoxShadow, s.TOC.Container.BoxShadow.Pick(dark)),
		},
		{
			Selector: ".toc-header",
			Config:   cssgen.Style{}.With(cssgen.BorderBottom, s.TOC.Header.BorderBottom.Pick(dark)),
		},
		{
			Selector: ".toc-title",
			Config: cssgen.Style{}.
				With(cssgen.Color, s.TOC.Title.Color.Pick(dark)).
				With(cssgen.FontWeight, s.TOC.Title.FontWeight),
		},
		{
			Selector: ".toc-link",
			Config:   cssgen.Style{}.With(cssgen.Color, s.TOC.Link.Color.Pick(dark)),
		},
		{
			Selector: ".toc-link:hover",
			Config: cssgen.Style{}.
				With(cssgen.Color, s.TOC.Link.Hover.Color.Pick(dark)).
				With(cssgen.Background, s.TOC.Link.Hover.Background.Pick(dark)),
		},
		{
			Selector: ".toc-item-active > .toc-link",
			Config:   active,
		},
	}
}

// CSS returns the page stylesheet for the given mode.
func (t PageTheme) CSS(dark bool) string {
	var b strings.Builder
	b.WriteString("/* Page theme: " + t.DisplayName + " */\n\n")
	b.WriteString(pageLayout)
	b.WriteString(cssgen.Generate(t.Rules(dark)))
	return b.String()
}
