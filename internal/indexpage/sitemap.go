package indexpage

import (
	"bytes"
	"fmt"
	"time"

	"github.com/beevik/etree"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

// Sitemap renders a one-entry sitemap.xml for siteURL.
func Sitemap(siteURL string, lastmod time.Time) ([]byte, error) {
	if siteURL == "" {
		return nil, fmt.Errorf("sitemap needs a site URL")
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	urlset := doc.CreateElement("urlset")
	urlset.CreateAttr("xmlns", sitemapNS)
	entry := urlset.CreateElement("url")
	entry.CreateElement("loc").SetText(siteURL)
	entry.CreateElement("lastmod").SetText(lastmod.UTC().Format("2006-01-02"))
	doc.Indent(2)

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to format sitemap: %v", err)
	}
	return buf.Bytes(), nil
}
