package models

// Role is the access level carried by a user and by the claims of its token.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleManager  Role = "MANAGER"
	RoleEmployee Role = "EMPLOYEE"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	default:
		return false
	}
}

// Conventional task statuses. Status is free text, these are only the values
// the system itself assigns or seeds.
const (
	StatusTodo       = "TODO"
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"
)

const DefaultPriority = 3

// Timestamps are epoch milliseconds.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"fullName"`
	Role      Role   `json:"role"`
	Password  string `json:"password"`
	CreatedAt int64  `json:"createdAt"`
}

// PublicUser is a User without its password hash.
type PublicUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"fullName"`
	Role      Role   `json:"role"`
	CreatedAt int64  `json:"createdAt"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

type Task struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	AssigneeID  *string `json:"assigneeId"`
	Status      string  `json:"status"`
	Priority    int     `json:"priority"`
	DueDate     *int64  `json:"dueDate"`
	CreatedBy   string  `json:"createdBy"`
	CreatedAt   int64   `json:"createdAt"`
	UpdatedAt   int64   `json:"updatedAt"`
}

type Message struct {
	ID        string `json:"id"`
	TaskID    string `json:"taskId"`
	Text      string `json:"text"`
	UserID    string `json:"userId"`
	CreatedAt int64  `json:"createdAt"`
}

type FileVersion struct {
	Ver           int    `json:"ver"`
	ContentBase64 string `json:"contentBase64"`
	Digest        string `json:"digest,omitempty"`
	UploadedAt    int64  `json:"uploadedAt"`
}

type File struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	ContentBase64 string        `json:"contentBase64"`
	Versions      []FileVersion `json:"versions"`
	UploadedBy    string        `json:"uploadedBy"`
	CreatedAt     int64         `json:"createdAt"`
}

// AuditRecord is immutable once appended. By is nil for anonymous actions
// such as self-registration.
type AuditRecord struct {
	ID     string  `json:"id"`
	Action string  `json:"action"`
	By     *string `json:"by"`
	Target string  `json:"target"`
	At     int64   `json:"at"`
}

// Document is the single persisted aggregate holding every collection.
type Document struct {
	Users    []User        `json:"users"`
	Tasks    []Task        `json:"tasks"`
	Files    []File        `json:"files"`
	Messages []Message     `json:"messages"`
	Audit    []AuditRecord `json:"audit"`
}

// EnsureCollections replaces nil collections with empty ones.
func (d *Document) EnsureCollections() {
	if d.Users == nil {
		d.Users = []User{}
	}
	if d.Tasks == nil {
		d.Tasks = []Task{}
	}
	if d.Files == nil {
		d.Files = []File{}
	}
	if d.Messages == nil {
		d.Messages = []Message{}
	}
	if d.Audit == nil {
		d.Audit = []AuditRecord{}
	}
}

func (d *Document) FindUserByEmail(email string) (int, bool) {
	for i := range d.Users {
		if d.Users[i].Email == email {
			return i, true
		}
	}
	return -1, false
}

func (d *Document) FindUser(id string) (int, bool) {
	for i := range d.Users {
		if d.Users[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

func (d *Document) FindTask(id string) (int, bool) {
	for i := range d.Tasks {
		if d.Tasks[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

func (d *Document) FindFile(id string) (int, bool) {
	for i := range d.Files {
		if d.Files[i].ID == id {
			return i, true
		}
	}
	return -1, false
}
