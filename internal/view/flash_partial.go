package view

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

var flashClasses = map[FlashLevel]string{
	FlashNotice: "bg-blue-50 text-blue-800 border-blue-200",
	FlashError:  "bg-red-50 text-red-800 border-red-200",
}

// FlashPartial renders flash messages as banners, in order.
func FlashPartial(data FlashData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if data.Empty() {
			return nil
		}
		if _, err := io.WriteString(w, `<div id="flash" class="space-y-2 mb-4">`); err != nil {
			return err
		}
		for _, msg := range data {
			class, ok := flashClasses[msg.Level]
			if !ok {
				class = flashClasses[FlashNotice]
			}
			role := "status"
			if msg.Level == FlashError {
				role = "alert"
			}
			_, err := io.WriteString(w, `<div role="`+role+`" class="border rounded px-3 py-2 text-sm `+class+`">`+
				templ.EscapeString(msg.Text)+`</div>`)
			if err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}
