package present

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderReport(t *testing.T) {
	var buf bytes.Buffer
	err := RenderReport(&buf, Report{
		Label:     "fake",
		FakeScore: 0.9,
		Tokens: []Token{
			{Text: "Shocking", Weight: 0.8},
			{Text: "<news>", Weight: -0.5},
			{Text: "today", Weight: 0},
		},
	})
	if err != nil {
		t.Fatalf("RenderReport: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"color: #ff5555",
		"Fake (90% fake)",
		"background-color: rgba(0, 210, 0, 0.8)",
		"background-color: rgba(210, 0, 0, 0.5)",
		"background-color: transparent",
		"&lt;news&gt;",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

func TestRenderReportSummary(t *testing.T) {
	var buf bytes.Buffer
	err := RenderReport(&buf, Report{
		Label:     "fact check",
		FakeScore: 0.5,
		Summary:   `Claim "A" <script>x</script> is unsupported`,
	})
	if err != nil {
		t.Fatalf("RenderReport: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"color: #ff9800",
		"Fact check (50% fake)",
		"<p>Claim &#34;A&#34; &lt;script&gt;x&lt;/script&gt; is unsupported</p>",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "<script>") {
		t.Fatalf("summary was not escaped:\n%s", out)
	}
}
