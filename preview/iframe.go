// Package preview renders local previews of compiled charts: the remote
// renderer embedded in an iframe, plus quick go-echarts/go-chart views of
// the underlying dataset.
package preview

import (
	"fmt"
	"math/rand"
	"strings"

	json "github.com/goccy/go-json"
)

const iframePage = `
<!DOCTYPE html>
<html>
  <head>
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <link
      href="https://fonts.googleapis.com/css?family=Lato:300,400,400i,700,700i|Playfair+Display:400,700&amp;display=swap"
      rel="stylesheet"
    />
    <link
      rel="stylesheet"
      href="https://ourworldindata.org/assets/commons.css"
    />
    <link rel="stylesheet" href="https://ourworldindata.org/assets/owid.css" />
    <meta property="og:image:width" content="850" />
    <meta property="og:image:height" content="600" />
    <script>
      if (window != window.top)
        document.documentElement.classList.add("IsInIframe");
    </script>
    <noscript
      ><style>
        figure {
          display: none !important;
        }
      </style></noscript
    >
  </head>
  <body class="StandaloneGrapherOrExplorerPage">
    <main>
      <figure data-grapher-src>
      </figure>
    </main>
      <div class="site-tools"></div>
      <script src="https://polyfill.io/v3/polyfill.min.js?features=es6,fetch,URL,IntersectionObserver,IntersectionObserverEntry"></script>
      <script src="https://ourworldindata.org/assets/commons.js"></script>
      <script src="https://ourworldindata.org/assets/owid.js"></script>
      <script>
        window.runSiteFooterScripts();
      </script>
    <script>
      const jsonConfig = %s;

      window.Grapher.renderSingleGrapherOnGrapherPage(jsonConfig);
    </script>
  </body>
</html>
`

// IframeOption configures IframeHTML.
type IframeOption func(*iframeSettings)

type iframeSettings struct {
	id string
}

// WithIframeID fixes the iframe element id instead of generating a random
// one. Used by tests and by callers embedding several charts in one page.
func WithIframeID(id string) IframeOption {
	return func(s *iframeSettings) {
		s.id = id
	}
}

// IframeHTML embeds a standalone wire config in an iframe that loads the
// remote renderer's assets and renders the chart client side.
func IframeHTML(wire map[string]any, opts ...IframeOption) (string, error) {
	var st iframeSettings
	for _, opt := range opts {
		opt(&st)
	}
	if st.id == "" {
		st.id = randomID(20)
	}

	raw, err := json.Marshal(wire)
	if err != nil {
		return "", fmt.Errorf("failed to encode chart config: %w", err)
	}

	contents := fmt.Sprintf(iframePage, raw)
	// A literal </script> inside the document.write template string would
	// terminate the outer script block early
	contents = strings.ReplaceAll(contents, "</script>", `<\/script>`)

	return fmt.Sprintf(`
        <iframe id="%s" style="width: 100%%; height: 600px; border: 0px none;" src="about:blank"></iframe>
        <script>
            document.getElementById("%s").contentDocument.write(`+"`%s`"+`)
        </script>
    `, st.id, st.id, contents), nil
}

const idAlphabet = "abcdefghijklmnopqrstuvwxyz"

func randomID(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = idAlphabet[rand.Intn(len(idAlphabet))]
	}
	return string(b)
}
