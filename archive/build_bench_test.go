package archive

import (
	"fmt"
	"strings"
	"testing"

	"github.com/dhcgn/fbmessage-stats/markup"
)

func BenchmarkBuild(b *testing.B) {
	var sb strings.Builder
	sb.WriteString("<html><body><div class=\"contents\">")
	for i := 0; i < 100; i++ {
		fmt.Fprintf(&sb, "<div class=\"thread\">User %d, Test User\n", i)
		for j := 0; j < 50; j++ {
			fmt.Fprintf(&sb, `<div class="message"><div class="message_header"><span class="user">User %d</span><span class="meta">Thursday, March 3, 2016 at 9:%02dpm EST</span></div></div><p>message %d, hello there!</p>`, i, j, j)
		}
		sb.WriteString("</div>")
	}
	sb.WriteString("</div></body></html>")

	doc, err := markup.Parse(strings.NewReader(sb.String()))
	if err != nil {
		b.Fatalf("Parse() error = %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := Build(doc, Options{}); err != nil {
			b.Fatalf("Build() error = %v", err)
		}
	}
}
