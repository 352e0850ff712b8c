package notify

import "testing"

func TestBuildContent(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantTitle string
		wantBody  string
	}{
		{"json with title and body", `{"title":"Novo cliente","body":"Carlos entrou na fila"}`, "Novo cliente", "Carlos entrou na fila"},
		{"json with title only", `{"title":"Novo cliente"}`, "Novo cliente", DefaultBody},
		{"json without title falls through to text", `{"body":"orphan"}`, DefaultTitle, `{"body":"orphan"}`},
		{"plain text", "Carlos entrou na fila", DefaultTitle, "Carlos entrou na fila"},
		{"malformed json treated as text", `{"title":`, DefaultTitle, `{"title":`},
		{"empty body", "", DefaultTitle, DefaultBody},
		{"whitespace only", "  \n\t ", DefaultTitle, DefaultBody},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			content := BuildContent([]byte(tc.body))
			if content.Title != tc.wantTitle {
				t.Fatalf("expected title %q, got %q", tc.wantTitle, content.Title)
			}
			if content.Body != tc.wantBody {
				t.Fatalf("expected body %q, got %q", tc.wantBody, content.Body)
			}
			if content.Tag != DefaultTag {
				t.Fatalf("expected tag %q, got %q", DefaultTag, content.Tag)
			}
		})
	}
}

func TestTicketCalledContent(t *testing.T) {
	content := TicketCalledContent("B-007")
	if content.Title != DefaultTitle {
		t.Fatalf("unexpected title: %q", content.Title)
	}
	if content.Body != "Senha B-007: chegou a sua vez!" {
		t.Fatalf("unexpected body: %q", content.Body)
	}

	anonymous := TicketCalledContent("")
	if anonymous.Body != "Chegou a sua vez! Dirija-se ao balcão." {
		t.Fatalf("unexpected body without number: %q", anonymous.Body)
	}
}
