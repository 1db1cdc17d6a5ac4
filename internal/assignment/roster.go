package assignment

// Fixed rosters the mock generator draws from. Mirrors the seed data the
// operations dashboard displays before real availability records exist.

type staffEntry struct {
	ID   string
	Name string
}

type propertyEntry struct {
	ID   string
	Name string
	Lat  float64
	Lng  float64
}

var staffRoster = []staffEntry{
	{ID: "staff_maria", Name: "Maria Santos"},
	{ID: "staff_somchai", Name: "Somchai Chaiyaporn"},
	{ID: "staff_ploy", Name: "Ploy Rattanakorn"},
	{ID: "staff_niran", Name: "Niran Thongchai"},
	{ID: "staff_kanya", Name: "Kanya Sirisopa"},
	{ID: "staff_carlos", Name: "Carlos Mendoza"},
}

var propertyRoster = []propertyEntry{
	{ID: "prop_villa_sunset", Name: "Villa Sunset Paradise", Lat: 9.7350, Lng: 100.0136},
	{ID: "prop_ocean_breeze", Name: "Ocean Breeze Villa", Lat: 9.7601, Lng: 100.0254},
	{ID: "prop_mango_house", Name: "Mango House", Lat: 9.7489, Lng: 99.9987},
	{ID: "prop_lotus_retreat", Name: "Lotus Retreat", Lat: 9.7702, Lng: 100.0412},
	{ID: "prop_palm_garden", Name: "Palm Garden Estate", Lat: 9.7285, Lng: 100.0301},
}

var jobTypes = []string{"cleaning", "maintenance", "inspection", "garden", "pool"}
