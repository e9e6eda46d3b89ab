package models

import "time"

// Gender policies for a hostel.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderMixed  = "mixed"
)

// Room statuses. Except for maintenance, status is a pure function of
// occupancy vs capacity (see reservation.RoomStatusFor).
const (
	RoomAvailable         = "available"
	RoomPartiallyOccupied = "partially_occupied"
	RoomFull              = "full"
	RoomMaintenance       = "maintenance"
)

// Bunk statuses.
const (
	BunkAvailable   = "available"
	BunkReserved    = "reserved"
	BunkOccupied    = "occupied"
	BunkMaintenance = "maintenance"
)

type Hostel struct {
	HostelID     string    `json:"hostelid" bson:"hostelid"`
	Name         string    `json:"name" bson:"name"`
	Level        int       `json:"level" bson:"level"`
	GenderPolicy string    `json:"gender_policy" bson:"gender_policy"`
	TotalRooms   int       `json:"total_rooms" bson:"total_rooms"`
	Porters      []string  `json:"porters,omitempty" bson:"porters,omitempty"`
	Photo        string    `json:"photo,omitempty" bson:"photo,omitempty"`
	Thumbnail    string    `json:"thumbnail,omitempty" bson:"thumbnail,omitempty"`
	Description  string    `json:"description,omitempty" bson:"description,omitempty"`
	IsActive     bool      `json:"is_active" bson:"is_active"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

type Room struct {
	RoomID           string    `json:"roomid" bson:"roomid"`
	RoomNumber       string    `json:"room_number" bson:"room_number"`
	Capacity         int       `json:"capacity" bson:"capacity"`
	CurrentOccupants int       `json:"current_occupants" bson:"current_occupants"`
	Level            int       `json:"level" bson:"level"`
	HostelID         string    `json:"hostelid" bson:"hostelid"`
	Status           string    `json:"status" bson:"status"`
	IsActive         bool      `json:"is_active" bson:"is_active"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" bson:"updated_at"`
}

type Bunk struct {
	BunkID        string     `json:"bunkid" bson:"bunkid"`
	BunkNumber    string     `json:"bunk_number" bson:"bunk_number"`
	RoomID        string     `json:"roomid" bson:"roomid"`
	OccupiedBy    string     `json:"occupied_by,omitempty" bson:"occupied_by,omitempty"`
	Status        string     `json:"status" bson:"status"`
	ReservedUntil *time.Time `json:"reserved_until,omitempty" bson:"reserved_until,omitempty"`
	IsActive      bool       `json:"is_active" bson:"is_active"`
	CreatedAt     time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" bson:"updated_at"`
}
