package ingest

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestReadCSVCorpus(t *testing.T) {
	path := writeFile(t, "emails.csv",
		"message_id,subject,body,date\n"+
			"m1,Hiring drive,\"Software engineer role, 8 LPA\",2025-11-01\n"+
			"m2,Internship,Apply now,2025-11-02\n"+
			"m1,Duplicate,ignored,2025-11-03\n"+
			",No id,dropped,2025-11-04\n")

	emails, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(emails) != 2 {
		t.Fatalf("len(emails) = %d, want 2", len(emails))
	}
	if emails[0].ID != "m1" || emails[1].ID != "m2" {
		t.Fatalf("ids = %q, %q, want m1, m2", emails[0].ID, emails[1].ID)
	}
	if emails[0].Subject != "Hiring drive" {
		t.Fatalf("Subject = %q, want %q", emails[0].Subject, "Hiring drive")
	}
	if emails[0].Body != "Software engineer role, 8 LPA" {
		t.Fatalf("Body = %q", emails[0].Body)
	}
	if emails[0].Date.IsZero() {
		t.Fatal("Date not parsed")
	}
}

func TestReadCSVColumnOrderIsFree(t *testing.T) {
	path := writeFile(t, "emails.csv",
		"body,message_id,extra,subject\n"+
			"hello,m1,x,Subject line\n")

	emails, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(emails) != 1 {
		t.Fatalf("len(emails) = %d, want 1", len(emails))
	}
	if emails[0].ID != "m1" || emails[0].Body != "hello" || emails[0].Subject != "Subject line" {
		t.Fatalf("unexpected email: %+v", emails[0])
	}
}

func TestReadCSVRequiresMessageID(t *testing.T) {
	path := writeFile(t, "emails.csv", "subject,body\na,b\n")
	if _, err := Read(path); err == nil {
		t.Fatal("Read() = nil, want missing column error")
	}
}

func TestReadJSONCorpus(t *testing.T) {
	path := writeFile(t, "emails.json", `[
		{"message_id": "m1", "subject": "Hiring", "body": "Python role"},
		{"message_id": "m2", "subject": "Other", "body": "<div><p>HTML body</p></div>"}
	]`)

	emails, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(emails) != 2 {
		t.Fatalf("len(emails) = %d, want 2", len(emails))
	}
	if emails[1].Body != "HTML body" {
		t.Fatalf("Body = %q, want HTML stripped", emails[1].Body)
	}
}

func TestReadUnsupportedExtension(t *testing.T) {
	path := writeFile(t, "emails.xml", "<emails/>")
	if _, err := Read(path); err == nil {
		t.Fatal("Read() = nil, want unsupported format error")
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"plain text untouched",
			"Software engineer, 8 LPA.\nApply by Friday.",
			"Software engineer, 8 LPA.\nApply by Friday.",
		},
		{
			"paragraphs become lines",
			"<html><body><p>Hiring: data analyst</p><p>CTC: 6 LPA</p></body></html>",
			"Hiring: data analyst\nCTC: 6 LPA",
		},
		{
			"br becomes newline",
			"<div>Role: QA engineer<br>Location: Pune</div>",
			"Role: QA engineer\nLocation: Pune",
		},
		{
			"script dropped",
			"<html><body><script>alert(1)</script><p>Real content</p></body></html>",
			"Real content",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripHTML(tt.in); got != tt.want {
				t.Fatalf("StripHTML() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIDsSorted(t *testing.T) {
	emails, err := ReadJSON(strings.NewReader(`[
		{"message_id": "m3"}, {"message_id": "m1"}, {"message_id": "m2"}
	]`))
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if got, want := IDs(emails), []string{"m1", "m2", "m3"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("IDs() = %v, want %v", got, want)
	}
}
