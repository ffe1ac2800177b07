package agegroup

// Defaults returns the built-in age groups used when no snapshot has been saved.
func Defaults() Groups {
	return Groups{
		KeyAnak:   {Label: "Anak-anak (5–12)", Min: 5, Max: 12},
		KeyRemaja: {Label: "Remaja (13–17)", Min: 13, Max: 17},
		KeyDewasa: {Label: "Dewasa (18–59)", Min: 18, Max: 59},
		KeyLansia: {Label: "Lansia (60+)", Min: 60, Max: 120},
	}
}
