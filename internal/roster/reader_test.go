package roster

import (
	"strings"
	"testing"

	"github.com/hitoshi/teamcal/internal/model"
)

func TestReadCSV(t *testing.T) {
	csvData := `id,user,type,role,active
1,Alice,mentor,Lead Mentor,1
2, Bob ,student,,1
3,Carol,other,Volunteer,0
`
	records, err := ReadCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	alice := records[1]
	if alice.Name != "Alice" || alice.Category != model.CategoryMentor || alice.Role != "Lead Mentor" || !alice.Active {
		t.Errorf("unexpected record for id=1: %+v", alice)
	}

	// 名前の前後空白は除去される
	bob := records[2]
	if bob.Name != "Bob" {
		t.Errorf("expected trimmed name 'Bob', got %q", bob.Name)
	}
	if bob.Role != "" {
		t.Errorf("expected empty role, got %q", bob.Role)
	}

	carol := records[3]
	if carol.Active {
		t.Error("expected id=3 to be inactive")
	}
}

func TestReadCSV_ColumnOrderIndependent(t *testing.T) {
	csvData := `active,role,user,id,type
1,Captain,Dave,42,student
`
	records, err := ReadCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	rec, ok := records[42]
	if !ok {
		t.Fatal("expected record for id=42")
	}
	if rec.Name != "Dave" || rec.Category != model.CategoryStudent || rec.Role != "Captain" || !rec.Active {
		t.Errorf("unexpected record: %+v", rec)
	}
}

func TestReadCSV_EmptyInput(t *testing.T) {
	records, err := ReadCSV(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected empty map, got %d records", len(records))
	}
}

func TestReadCSV_HeaderOnly(t *testing.T) {
	records, err := ReadCSV(strings.NewReader("id,user,type,role,active\n"))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected empty map, got %d records", len(records))
	}
}

func TestReadCSV_InvalidRows(t *testing.T) {
	tests := []struct {
		name    string
		csvData string
	}{
		{
			name:    "missing required column",
			csvData: "id,user,type\n1,Alice,mentor\n",
		},
		{
			name:    "non-integer id",
			csvData: "id,user,type,role,active\nabc,Alice,mentor,,1\n",
		},
		{
			name:    "empty name",
			csvData: "id,user,type,role,active\n1,   ,mentor,,1\n",
		},
		{
			name:    "invalid category",
			csvData: "id,user,type,role,active\n1,Alice,teacher,,1\n",
		},
		{
			name:    "non-integer active",
			csvData: "id,user,type,role,active\n1,Alice,mentor,,yes\n",
		},
		{
			name:    "duplicate id",
			csvData: "id,user,type,role,active\n1,Alice,mentor,,1\n1,Bob,student,,1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadCSV(strings.NewReader(tt.csvData)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
