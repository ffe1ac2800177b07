package competition

// Defaults returns the built-in catalog used when no snapshot has been saved.
// Order is significant: filters preserve it.
func Defaults() []Competition {
	return []Competition{
		{ID: "balap-karung", Name: "Balap Karung", MinAge: 7, MaxAge: 60, Description: "Lomba lari menggunakan karung."},
		{ID: "makan-kerupuk", Name: "Makan Kerupuk", MinAge: 5, MaxAge: 70, Description: "Siapa paling cepat habiskan kerupuk tanpa tangan!"},
		{ID: "balap-kelereng", Name: "Balap Kelereng", MinAge: 5, MaxAge: 15, Description: "Bawa kelereng di sendok sambil berlari."},
		{ID: "paku-ke-botol", Name: "Memasukkan Paku ke Botol", MinAge: 10, MaxAge: 60},
		{ID: "tarik-tambang", Name: "Tarik Tambang (Tim)", MinAge: 12, MaxAge: 60, Team: true},
		{ID: "bakiak", Name: "Bakiak (Tim)", MinAge: 10, MaxAge: 60, Team: true},
		{ID: "panjat-pinang", Name: "Panjat Pinang", MinAge: 17, MaxAge: 50, Description: "Khusus dewasa, wajib safety."},
		{ID: "melempar-cincin", Name: "Lempar Cincin", MinAge: 5, MaxAge: 70},
		{ID: "fashion-merah-putih", Name: "Fashion Show Merah Putih", MinAge: 5, MaxAge: 15},
	}
}
