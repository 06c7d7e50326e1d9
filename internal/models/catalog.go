package models

// Posting is an internship offer from the static "stages" catalog.
type Posting struct {
	ID                  string   `json:"id"`
	Title               string   `json:"title"`
	Company             string   `json:"company"`
	Location            string   `json:"location"`
	Duration            string   `json:"duration,omitempty"`
	Domain              string   `json:"domain,omitempty"`
	Description         string   `json:"description,omitempty"`
	Requirements        []string `json:"requirements,omitempty"`
	ApplicationDeadline string   `json:"applicationDeadline,omitempty"`
	ContactEmail        string   `json:"contactEmail"`
	Salary              string   `json:"salary,omitempty"`
	Type                string   `json:"type,omitempty"`
}

type Contact struct {
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Website string `json:"website"`
}

type School struct {
	ID                    string   `json:"id"`
	Name                  string   `json:"name"`
	AdmissionRequirements []string `json:"admissionRequirements"`
	Location              string   `json:"location"`
	Country               string   `json:"country"`
	Programs              []string `json:"programs"`
	Contact               Contact  `json:"contact"`
	Description           string   `json:"description"`
	GoodToKnow            string   `json:"goodToKnow"`
}

type Gallery struct {
	Images      []string `json:"images"`
	Videos      []string `json:"videos,omitempty"`
	Description string   `json:"description,omitempty"`
}

type University struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Location     string   `json:"location"`
	Type         string   `json:"type"` // Public | Privé
	Image        string   `json:"image"`
	Description  string   `json:"description"`
	Slug         string   `json:"slug"`
	Schools      []School `json:"schools"`
	Established  string   `json:"established,omitempty"`
	StudentCount string   `json:"studentCount,omitempty"`
	Website      string   `json:"website,omitempty"`
	Gallery      *Gallery `json:"gallery,omitempty"`
}

type Filiere struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Slug                string   `json:"slug"`
	Category            string   `json:"category"`
	Description         string   `json:"description"`
	Duration            string   `json:"duration"`
	CareerOpportunities []string `json:"careerOpportunities"`
	AverageSalary       string   `json:"averageSalary"`
	RequiredSkills      []string `json:"requiredSkills"`
	Universities        []string `json:"universities"`
	Image               string   `json:"image"`
}

type Concours struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Institution     string   `json:"institution"`
	Deadline        string   `json:"deadline"`
	ExamDate        string   `json:"examDate"`
	Description     string   `json:"description"`
	Requirements    []string `json:"requirements"`
	DocumentsNeeded []string `json:"documentsNeeded"`
	ApplicationLink string   `json:"applicationLink"`
	Domain          string   `json:"domain"`
}

type Formation struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Instructor  string   `json:"instructor"`
	Price       float64  `json:"price"`
	Duration    string   `json:"duration"`
	Level       string   `json:"level"`
	Description string   `json:"description"`
	Objectives  []string `json:"objectives"`
	Content     []string `json:"content"`
	Image       string   `json:"image"`
	Category    string   `json:"category"`
	StartDate   string   `json:"startDate"`
}

type Conseil struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Category string   `json:"category"`
	Author   string   `json:"author"`
	Date     string   `json:"date"`
	ReadTime string   `json:"readTime"`
	Content  string   `json:"content"`
	Summary  string   `json:"summary,omitempty"`
	Image    string   `json:"image"`
	Tags     []string `json:"tags"`
}
