package scraper

import "time"

// fakeElement is an in-memory Element for tests.
type fakeElement struct {
	text      string
	attrs     map[string]string
	children  map[string]*fakeElement
	xchildren map[string]*fakeElement
}

func (e *fakeElement) Text() (string, error) {
	return e.text, nil
}

func (e *fakeElement) Attribute(name string) (*string, error) {
	if v, ok := e.attrs[name]; ok {
		return &v, nil
	}
	return nil, nil
}

func (e *fakeElement) Has(selector string) (bool, Element, error) {
	if child, ok := e.children[selector]; ok {
		return true, child, nil
	}
	return false, nil, nil
}

func (e *fakeElement) HasX(xpath string) (bool, Element, error) {
	if child, ok := e.xchildren[xpath]; ok {
		return true, child, nil
	}
	return false, nil, nil
}

// fakePage is an in-memory Page. Scroll heights are served from a fixed
// sequence, repeating the last entry once exhausted.
type fakePage struct {
	navigated   []string
	navErr      error
	heights     []float64
	scrollCalls int
	elements    map[string][]Element
	singles     map[string]*fakeElement
}

func (p *fakePage) Navigate(url string) error {
	if p.navErr != nil {
		return p.navErr
	}
	p.navigated = append(p.navigated, url)
	return nil
}

func (p *fakePage) ScrollToBottom(settle time.Duration) (float64, error) {
	idx := p.scrollCalls
	if idx >= len(p.heights) {
		idx = len(p.heights) - 1
	}
	p.scrollCalls++
	if idx < 0 {
		return 0, nil
	}
	return p.heights[idx], nil
}

func (p *fakePage) Elements(selector string) ([]Element, error) {
	return p.elements[selector], nil
}

func (p *fakePage) Has(selector string) (bool, Element, error) {
	if el, ok := p.singles[selector]; ok {
		return true, el, nil
	}
	return false, nil, nil
}

func (p *fakePage) HasX(xpath string) (bool, Element, error) {
	if el, ok := p.singles[xpath]; ok {
		return true, el, nil
	}
	return false, nil, nil
}
