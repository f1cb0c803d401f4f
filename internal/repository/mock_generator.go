package repository

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/noah-isme/sma-attendance-dashboard/internal/models"
)

// ClassNames are the classes students are spread across, round-robin.
var ClassNames = []string{
	"人文2401班",
	"人文2402班",
	"计算机2401班",
	"计算机2402班",
	"电子2401班",
}

var (
	familyNames = []string{
		"张", "王", "李", "赵", "刘", "陈", "杨", "黄", "周", "吴",
		"徐", "孙", "马", "朱", "胡", "郭", "何", "高", "林", "罗",
	}
	givenNames = []string{
		"伟", "芳", "娜", "秀英", "敏", "静", "丽", "强", "磊", "军",
		"洋", "勇", "艳", "杰", "娟", "涛", "明", "超", "秀兰", "霞",
		"平", "刚", "桂英", "华", "梅", "鑫", "玲", "婷", "宇", "浩",
	}
)

// statusWeights is the cumulative distribution used for generated rows.
var statusWeights = []struct {
	upTo   float64
	status models.AttendanceStatus
}{
	{0.75, models.StatusPresent},
	{0.82, models.StatusLate},
	{0.88, models.StatusAbsent},
	{0.93, models.StatusPersonalLeave},
	{0.97, models.StatusSickLeave},
	{1.00, models.StatusEarlyLeave},
}

// GeneratorConfig controls the synthetic dataset. A zero Seed picks a time-based seed on every reset.
type GeneratorConfig struct {
	Seed     int64
	Students int
	Days     int
	Now      func() time.Time
}

func (c GeneratorConfig) withDefaults() GeneratorConfig {
	if c.Students <= 0 {
		c.Students = 50
	}
	if c.Days <= 0 {
		c.Days = 15
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

type generator struct {
	rng *rand.Rand
	now time.Time
}

func newGenerator(cfg GeneratorConfig) *generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &generator{rng: rand.New(rand.NewSource(seed)), now: cfg.Now()}
}

// StudentID formats the id of the index-th generated student.
func StudentID(index int) string {
	return fmt.Sprintf("2024%03d", index+1)
}

func (g *generator) students(count int) []models.Student {
	students := make([]models.Student, 0, count)
	for i := 0; i < count; i++ {
		students = append(students, models.Student{
			StudentID: StudentID(i),
			Name:      g.pick(familyNames) + g.pick(givenNames),
			Class:     ClassNames[i%len(ClassNames)],
		})
	}
	return students
}

// attendances emits one row per student per day, most recent day first, with ids from 1.
func (g *generator) attendances(students []models.Student, days int) []models.Attendance {
	rows := make([]models.Attendance, 0, len(students)*days)
	id := 1
	for day := 0; day < days; day++ {
		date := models.FormatMMDD(g.now.AddDate(0, 0, -day))
		for _, s := range students {
			status := g.status()
			rows = append(rows, models.Attendance{
				ID:           id,
				StudentID:    s.StudentID,
				Name:         s.Name,
				Class:        s.Class,
				Date:         date,
				Status:       status,
				StatusSymbol: status.Symbol(),
			})
			id++
		}
	}
	return rows
}

func (g *generator) status() models.AttendanceStatus {
	r := g.rng.Float64()
	for _, w := range statusWeights {
		if r < w.upTo {
			return w.status
		}
	}
	return models.StatusEarlyLeave
}

func (g *generator) pick(values []string) string {
	return values[g.rng.Intn(len(values))]
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%.1f", v)
}
