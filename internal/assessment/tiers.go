package assessment

import "rspo-readiness/internal/model"

// StageTiers classify a single stage (80 / 60 / 40 / below).
var StageTiers = []model.Tier{
	{
		MinPercentage: 80,
		Label:         "Excellent",
		ColorClass:    "green",
		Description:   "Praktik kebun Anda pada tahap ini sudah sangat sesuai dengan standar RSPO.",
		Recommendations: []string{
			"Pertahankan pencatatan dan dokumentasi yang sudah berjalan.",
			"Lanjutkan ke tahap berikutnya.",
		},
	},
	{
		MinPercentage: 60,
		Label:         "Good",
		ColorClass:    "blue",
		Description:   "Sebagian besar persyaratan tahap ini sudah terpenuhi.",
		Recommendations: []string{
			"Lengkapi persyaratan yang masih berstatus dalam proses.",
			"Konsultasikan kekurangan dengan manajer kelompok atau pendamping.",
		},
	},
	{
		MinPercentage: 40,
		Label:         "Fair",
		ColorClass:    "yellow",
		Description:   "Beberapa persyaratan penting tahap ini belum terpenuhi.",
		Recommendations: []string{
			"Prioritaskan persyaratan legalitas lahan dan pendaftaran kebun.",
			"Ikuti pelatihan Praktik Budidaya yang Baik bersama kelompok.",
		},
	},
	{
		MinPercentage: 0,
		Label:         "Needs Improvement",
		ColorClass:    "red",
		Description:   "Sebagian besar persyaratan tahap ini belum terpenuhi.",
		Recommendations: []string{
			"Hubungi pendamping atau dinas perkebunan setempat untuk bimbingan awal.",
			"Mulai dari legalitas lahan dan keanggotaan kelompok tani.",
		},
	},
}

// OverallTiers classify the whole assessment (85 / 70 / 55 / below).
// They are deliberately coarser at the top than StageTiers.
var OverallTiers = []model.Tier{
	{
		MinPercentage: 85,
		Label:         "Outstanding",
		ColorClass:    "green",
		Description:   "Anda sangat siap untuk menjalani audit sertifikasi RSPO.",
		Recommendations: []string{
			"Ajukan jadwal audit kepada lembaga sertifikasi yang diakui RSPO.",
			"Bagikan pengalaman Anda kepada anggota kelompok lainnya.",
		},
	},
	{
		MinPercentage: 70,
		Label:         "Very Good",
		ColorClass:    "blue",
		Description:   "Kesiapan Anda baik, dengan beberapa perbaikan kecil sebelum audit.",
		Recommendations: []string{
			"Tutup kekurangan pada tahap dengan nilai terendah.",
			"Lakukan audit internal bersama manajer kelompok.",
		},
	},
	{
		MinPercentage: 55,
		Label:         "Good",
		ColorClass:    "yellow",
		Description:   "Dasar-dasar sudah ada, tetapi masih banyak persyaratan yang perlu dipenuhi.",
		Recommendations: []string{
			"Susun rencana perbaikan dengan target waktu yang jelas.",
			"Ikuti pelatihan NKT, PHT, dan keselamatan kerja.",
		},
	},
	{
		MinPercentage: 0,
		Label:         "Needs Improvement",
		ColorClass:    "red",
		Description:   "Kebun Anda belum siap untuk sertifikasi RSPO.",
		Recommendations: []string{
			"Mulai dari persyaratan kelayakan pada tahap 1.",
			"Bergabung dengan kelompok tani yang mendampingi proses sertifikasi.",
		},
	},
}

// ClassifyStage maps a stage percentage to its tier
func ClassifyStage(pct float64) model.Tier {
	return classify(StageTiers, pct)
}

// ClassifyOverall maps an overall percentage to its tier
func ClassifyOverall(pct float64) model.Tier {
	return classify(OverallTiers, pct)
}

// classify expects table ordered by descending MinPercentage
func classify(table []model.Tier, pct float64) model.Tier {
	for _, t := range table {
		if pct >= t.MinPercentage {
			return t
		}
	}
	return table[len(table)-1]
}
