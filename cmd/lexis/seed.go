package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/stemsi/lexis/internal/apperror"
	"github.com/stemsi/lexis/internal/model"
)

var demoColleges = []model.CreateCollegeRequest{
	{Code: "CCS", Name: "College of Computer Studies"},
	{Code: "COE", Name: "College of Engineering"},
	{Code: "CSM", Name: "College of Science and Mathematics"},
}

var demoPrograms = []model.CreateProgramRequest{
	{Code: "BSCS", Name: "Bachelor of Science in Computer Science", CollegeCode: "CCS"},
	{Code: "BSIT", Name: "Bachelor of Science in Information Technology", CollegeCode: "CCS"},
	{Code: "BSCE", Name: "Bachelor of Science in Civil Engineering", CollegeCode: "COE"},
	{Code: "BSEE", Name: "Bachelor of Science in Electrical Engineering", CollegeCode: "COE"},
	{Code: "BSMATH", Name: "Bachelor of Science in Mathematics", CollegeCode: "CSM"},
	{Code: "BSBIO", Name: "Bachelor of Science in Biology", CollegeCode: "CSM"},
}

var demoNames = []string{
	"Budi Santoso", "Siti Aminah", "Andi Pratama", "Rina Wati", "Joko Susilo",
	"Ayu Lestari", "Dodi Kusuma", "Eka Putri", "Fahri Hamzah", "Gita Savitri",
	"Hendra Gunawan", "Ika Sari", "Jamal Mirdad", "Kiki Fatmala", "Lukman Hakim",
	"Maya Septiana", "Nanda Pratama", "Oki Setiana", "Putri Dian", "Qori Maharani",
	"Rafi Ahmad", "Siska Saraswati", "Toni Setiawan", "Umi Kalsum", "Vina Panduwinata",
	"Wahyu Hidayat", "Xena Maharani", "Yudi Pratama", "Zaki Anwar", "Alifia Zahra",
	"Bagas Saputra", "Citra Kirana", "Dimas Anggara", "Elisa Novita", "Fikri Maulana",
	"Gali Rakasiwi", "Hani Hanifah", "Iqbal Ramadhan", "Jasmine Azzahra", "Kevin Sanjaya",
	"Larasati Dewi", "Miko Pambudi", "Nia Ramadhani", "Oscar Lawalata", "Puput Melati",
	"Reza Rahadian", "Sari Nila", "Tigor Siahaan", "Utari Maharani", "Vicky Prasetyo",
}

var demoGenders = []model.Gender{model.GenderMale, model.GenderFemale, model.GenderOther}

func newSeedCmd(a *app) *cobra.Command {
	var (
		count int
		year  int
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the store with demo colleges, programs and students",
		Long: `Add a fixed set of demo colleges and programs, then COUNT students spread
across the programs. Records that already exist are left alone, so running
seed twice is harmless.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 0 {
				return fmt.Errorf("--count must not be negative")
			}
			s := seeder{app: a}
			return s.run(cmd.Context(), count, year)
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", len(demoNames), "number of students to add")
	cmd.Flags().IntVar(&year, "year", 2024, "enrolment year used as the ID prefix")
	return cmd
}

type seeder struct {
	*app
	added   int
	skipped int
}

func (s *seeder) run(ctx context.Context, count, year int) error {
	fmt.Fprintln(s.out, "=== Seeding colleges and programs ===")
	for _, req := range demoColleges {
		_, _, err := s.colleges.Add(ctx, req)
		if err := s.tally("college "+req.Code, err); err != nil {
			return err
		}
	}
	for _, req := range demoPrograms {
		_, _, err := s.programs.Add(ctx, req)
		if err := s.tally("program "+req.Code, err); err != nil {
			return err
		}
	}

	fmt.Fprintf(s.out, "=== Seeding %d students ===\n", count)
	for i := 0; i < count; i++ {
		first, last := splitName(demoNames[i%len(demoNames)])
		req := model.CreateStudentRequest{
			IDNumber:    fmt.Sprintf("%04d-%04d", year, i+1),
			FirstName:   first,
			LastName:    last,
			YearLevel:   i%4 + 1,
			Gender:      string(demoGenders[i%len(demoGenders)]),
			ProgramCode: demoPrograms[i%len(demoPrograms)].Code,
		}
		_, _, err := s.students.Add(ctx, req)
		if err := s.tally("student "+req.IDNumber, err); err != nil {
			return err
		}
	}

	fmt.Fprintf(s.out, "=== Done: %d added, %d already present ===\n", s.added, s.skipped)
	return nil
}

// tally counts an Add result. Duplicates are skipped; anything else stops the run.
func (s *seeder) tally(what string, err error) error {
	switch {
	case err == nil:
		s.added++
		fmt.Fprintf(s.out, "[+] %s\n", what)
		return nil
	case apperror.KindOf(err) == apperror.KindIntegrity && strings.Contains(err.Error(), "already exists"):
		s.skipped++
		fmt.Fprintf(s.out, "[=] %s\n", what)
		return nil
	default:
		return fmt.Errorf("seed %s: %w", what, err)
	}
}

func splitName(full string) (first, last string) {
	first, last, _ = strings.Cut(full, " ")
	return first, last
}
