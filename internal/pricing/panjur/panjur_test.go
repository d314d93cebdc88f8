package panjur

import (
	"testing"

	"shutter-pricing-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func accessoryFixture() []domain.CatalogItem {
	return []domain.CatalogItem{
		{Description: "137 Yan Kapak 45 Pimli Beyaz", Type: "aksesuar", Price: "2.00"},
		{Description: "40 Boru Başı Rulmanlı Siyah", Type: "aksesuar", Price: "3.00"},
		{Description: "60 Boru Başı Rulmanlı Siyah", Type: "aksesuar", Price: "4.00"},
		{Description: "40x125 Kasnak Rulmanlı Siyah", Type: "aksesuar", Price: "5.00"},
		{Description: "40x140 Kasnak Rulmanlı Siyah", Type: "aksesuar", Price: "5.50"},
		{Description: "Rulman 12x28", Type: "aksesuar", Price: "1.00"},
		{Description: "Winde Otomatik Makara", Type: "aksesuar", Price: "7.00"},
		{Description: "Kordon Geçme Makarası 14 mm PVC", Type: "aksesuar", Price: "0.50"},
		{Description: "Plaket 100x100 12 mm Pimli Galvaniz", Type: "aksesuar", Price: "2.00"},
		{Description: "PVC Tapa SL-39", Type: "aksesuar", Price: "0.10"},
		{Description: "Zımba Teli 5", Type: "aksesuar", Price: "0.01"},
		{Description: "Çelik Askı 130 mm ( SL 39 )", Type: "aksesuar", Price: "0.40"},
		{Description: "39'luk Alt Parça Lastiği Gri", Type: "aksesuar", Price: "1.20"},
		{Description: "Stoper Konik", Type: "aksesuar", Price: "0.30"},
		{Description: "067x550 Standart Kıl Fitil", Type: "aksesuar", Price: "0.25"},
		{Description: "Mosel SEL 60-20 Alıcılı Motor", Type: "panjur_motorlari", Price: "150"},
		{Description: "Yükseltme Profili Beyaz", Type: "sineklik_profilleri", Price: "3.00"},
	}
}

func priceFixture() []domain.CatalogItem {
	return []domain.CatalogItem{
		{Description: "39 mm Alüminyum Poliüretanlı Lamel Beyaz", Type: "panjur_lamel_profilleri", Price: "10"},
		{Description: "Mini Alt Parça Beyaz", Type: "panjur_alt_parça_profilleri", Price: "4"},
		{Description: "Mini Dikme 53 mm Beyaz", Type: "panjur_dikme_profilleri", Price: "6"},
		{Description: "137 - ÖN 45 Alüminyum Kutu Beyaz", Type: "kutu_profilleri", Price: "8"},
		{Description: "137 - ARKA 90 Alüminyum Kutu Beyaz", Type: "kutu_profilleri", Price: "7"},
		{Description: "40mm Sekizgen Boru 0,40 Galvaniz", Type: "boru_profilleri", Price: "5"},
	}
}

func manualPulleyState() domain.State {
	return domain.State{
		"width":              float64(1200),
		"height":             float64(1500),
		"dikmeOlcuAlmaSekli": "dikme_dahil",
		"kutuOlcuAlmaSekli":  "kutu_dahil",
		"dikmeType":          "mini_dikme",
		"boxType":            "137mm",
		"lamelTickness":      "39_sl",
		"lamelType":          "aluminyum_poliuretanli",
		"lamel_color":        "beyaz",
		"box_color":          "beyaz",
		"subPart":            "mini_alt_parca",
		"movementType":       "manuel",
		"manuelSekli":        "makarali",
		"makaraliTip":        "makassiz",
		"dikmeAdapter":       "yok",
	}
}

func descriptions(items []domain.CatalogItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Description)
	}
	return out
}

func TestAccessories_ManualPulley(t *testing.T) {
	in := domain.CalculationInput{State: manualPulleyState(), Accessories: accessoryFixture(), SectionCount: 1}

	got := Calculator{}.Accessories(in)

	require.Equal(t, []string{
		"137 Yan Kapak 45 Pimli Beyaz",
		"40 Boru Başı Rulmanlı Siyah",
		"40x125 Kasnak Rulmanlı Siyah",
		"Rulman 12x28",
		"Winde Otomatik Makara",
		"Kordon Geçme Makarası 14 mm PVC",
		"PVC Tapa SL-39",
		"Zımba Teli 5",
		"Çelik Askı 130 mm ( SL 39 )",
		"39'luk Alt Parça Lastiği Gri",
		"Stoper Konik",
		"067x550 Standart Kıl Fitil",
	}, descriptions(got))

	want := []float64{1, 1, 1, 2, 1, 1, 36, 36, 4, 1.115, 1, 2.766}
	for i, q := range want {
		assert.InDelta(t, q, got[i].Quantity, 1e-9, got[i].Description)
	}
	assert.Equal(t, "Metre", got[11].Unit)
}

func TestAccessories_Motorized(t *testing.T) {
	state := manualPulleyState().Merge(map[string]any{
		"movementType": "motorlu",
		"manuelSekli":  "",
		"boxType":      "250mm",
		"motorMarka":   "mosel",
		"motorModel":   "sel_60-20",
		"motorSekli":   "alicili_motorlu",
	})
	got := descriptions(Calculator{}.Accessories(domain.CalculationInput{State: state, Accessories: accessoryFixture()}))

	assert.Contains(t, got, "60 Boru Başı Rulmanlı Siyah")
	assert.Contains(t, got, "Plaket 100x100 12 mm Pimli Galvaniz")
	assert.Contains(t, got, "Mosel SEL 60-20 Alıcılı Motor")
	assert.NotContains(t, got, "40x140 Kasnak Rulmanlı Siyah")
	assert.NotContains(t, got, "Stoper Konik")
}

func TestAccessories_HeightAdapter(t *testing.T) {
	state := manualPulleyState().Merge(map[string]any{"dikmeAdapter": "var", "dikme_color": "beyaz"})
	got := Calculator{}.Accessories(domain.CalculationInput{State: state, Accessories: accessoryFixture(), SectionCount: 2})

	var adapter *domain.CatalogItem
	for i := range got {
		if got[i].Description == "Yükseltme Profili Beyaz" {
			adapter = &got[i]
		}
	}
	require.NotNil(t, adapter)
	// (1383 - 20) mm per post, four posts for two sections
	assert.InDelta(t, 1.363*4, adapter.Quantity, 1e-9)
	assert.Equal(t, "metre", adapter.Unit)
}

func TestAccessories_MiniScissorKit(t *testing.T) {
	fixture := append(accessoryFixture(),
		domain.CatalogItem{Description: "Panjur Dikme Makası", Price: "1"},
		domain.CatalogItem{Description: "Panjur Dikme Menteşesi", Price: "1"},
	)
	state := manualPulleyState().Merge(map[string]any{"makaraliTip": "makasli"})

	got := Calculator{}.Accessories(domain.CalculationInput{State: state, Accessories: fixture, SectionCount: 1})

	var kit []domain.CatalogItem
	for _, it := range got {
		if it.Description == "Panjur Dikme Makası" || it.Description == "Panjur Dikme Menteşesi" {
			kit = append(kit, it)
		}
	}
	require.Len(t, kit, 2)
	assert.Equal(t, float64(2), kit[0].Quantity)
}

func quantities(items []domain.CatalogItem) map[string]float64 {
	out := make(map[string]float64, len(items))
	for _, it := range items {
		out[it.Description] += it.Quantity
	}
	return out
}

func hardwareFixture() []domain.CatalogItem {
	return append(accessoryFixture(),
		domain.CatalogItem{Description: "Panjur Redüktörü Beyaz", Type: "aksesuar", Price: "9.00"},
		domain.CatalogItem{Description: "Redüktör Boru Başı 40 mm-C 371 Uyumlu", Type: "aksesuar", Price: "2.00"},
		domain.CatalogItem{Description: "Ara Kol-C 371 Uyumlu", Type: "aksesuar", Price: "1.50"},
		domain.CatalogItem{Description: "Çevirme Kolu-1200 mm", Type: "aksesuar", Price: "6.00"},
		domain.CatalogItem{Description: "Alt Parça Sürgüsü Yuvarlak Galvaniz", Type: "aksesuar", Price: "0.80"},
		domain.CatalogItem{Description: "Alt Parça Sürgüsü Yassı Galvaniz", Type: "aksesuar", Price: "0.70"},
		domain.CatalogItem{Description: "55'lik Lamel Denge Makarası", Type: "aksesuar", Price: "1.10"},
		domain.CatalogItem{Description: "PVC Tapa SL-55", Type: "aksesuar", Price: "0.12"},
		domain.CatalogItem{Description: "Çelik Askı 170 mm ( SL 55 )", Type: "aksesuar", Price: "0.45"},
		domain.CatalogItem{Description: "55'lik Alt Parça Lastiği Gri", Type: "aksesuar", Price: "1.40"},
	)
}

func TestAccessories_HardwareRules(t *testing.T) {
	midi := map[string]any{"dikmeType": "midi_dikme", "boxType": "165mm", "lamelTickness": "55_sl"}

	tests := []struct {
		name    string
		changes map[string]any
		want    map[string]float64
		absent  []string
	}{
		{
			name:    "reducer drive takes the six part kit",
			changes: map[string]any{"manuelSekli": "reduktorlu", "makaraliTip": ""},
			want: map[string]float64{
				"40 Boru Başı Rulmanlı Siyah":           1,
				"Rulman 12x28":                          1,
				"Panjur Redüktörü Beyaz":                1,
				"Redüktör Boru Başı 40 mm-C 371 Uyumlu": 1,
				"Ara Kol-C 371 Uyumlu":                  1,
				"Çevirme Kolu-1200 mm":                  1,
			},
			absent: []string{"Winde Otomatik Makara", "40x125 Kasnak Rulmanlı Siyah", "Stoper Konik"},
		},
		{
			name:   "pulley drive has no reducer parts",
			want:   map[string]float64{"Rulman 12x28": 2, "Winde Otomatik Makara": 1},
			absent: []string{"Panjur Redüktörü Beyaz", "Ara Kol-C 371 Uyumlu", "Çevirme Kolu-1200 mm"},
		},
		{
			name:    "locking bottom rail adds both bolts",
			changes: map[string]any{"subPart": "kilitli_alt_parca"},
			want: map[string]float64{
				"Alt Parça Sürgüsü Yuvarlak Galvaniz": 1,
				"Alt Parça Sürgüsü Yassı Galvaniz":    1,
			},
		},
		{
			name:   "plain bottom rail has no bolts",
			absent: []string{"Alt Parça Sürgüsü Yuvarlak Galvaniz", "Alt Parça Sürgüsü Yassı Galvaniz"},
		},
		{
			name:    "midi post under a 250 box takes a balance pulley",
			changes: map[string]any{"dikmeType": "midi_dikme", "boxType": "250mm", "lamelTickness": "55_sl"},
			want:    map[string]float64{"55'lik Lamel Denge Makarası": 1},
		},
		{
			name:    "midi post under a smaller box has no balance pulley",
			changes: map[string]any{"dikmeType": "midi_dikme", "boxType": "205mm", "lamelTickness": "55_sl"},
			absent:  []string{"55'lik Lamel Denge Makarası"},
		},
		{
			name:    "mini post under a 250 box has no balance pulley",
			changes: map[string]any{"boxType": "250mm"},
			absent:  []string{"55'lik Lamel Denge Makarası"},
		},
		{
			// lamel width 1190-90 = 1100, 26 slats, post height 1500-165+25 = 1360
			name:    "non-mini post takes the SL 55 caps, hangers and gasket",
			changes: midi,
			want: map[string]float64{
				"PVC Tapa SL-55":               26,
				"Zımba Teli 5":                 26,
				"Çelik Askı 170 mm ( SL 55 )":  4,
				"55'lik Alt Parça Lastiği Gri": 1.1,
				"067x550 Standart Kıl Fitil":   2.72,
			},
			absent: []string{"PVC Tapa SL-39", "Çelik Askı 130 mm ( SL 39 )", "39'luk Alt Parça Lastiği Gri", "Stoper Konik"},
		},
		{
			name:   "mini post keeps the SL 39 parts",
			want:   map[string]float64{"PVC Tapa SL-39": 36, "Çelik Askı 130 mm ( SL 39 )": 4},
			absent: []string{"PVC Tapa SL-55", "Çelik Askı 170 mm ( SL 55 )", "55'lik Alt Parça Lastiği Gri"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := manualPulleyState().Merge(tt.changes)

			got := quantities(Calculator{}.Accessories(domain.CalculationInput{State: state, Accessories: hardwareFixture(), SectionCount: 1}))

			for desc, qty := range tt.want {
				require.Contains(t, got, desc)
				assert.InDelta(t, qty, got[desc], 1e-9, desc)
			}
			for _, desc := range tt.absent {
				assert.NotContains(t, got, desc)
			}
		})
	}
}

func TestHangerCount(t *testing.T) {
	tests := []struct {
		width float64
		want  float64
	}{
		{900, 2}, {1000, 2}, {1001, 4}, {1500, 4}, {2250, 6}, {3500, 8}, {3501, 10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, hangerCount(tt.width), "width %v", tt.width)
	}
}

func TestProducts_ManualPulley(t *testing.T) {
	in := domain.CalculationInput{State: manualPulleyState(), Prices: priceFixture(), SectionCount: 1}

	got := Calculator{}.Products(in)
	require.Len(t, got, 6)

	lamel := got[0]
	assert.Equal(t, 36, lamel.Pieces)
	assert.InDelta(t, 1.115*36, lamel.Quantity, 1e-9)
	assert.InDelta(t, 401.4, lamel.TotalPrice.InexactFloat64(), 1e-6)
	assert.Equal(t, "1115 mm", lamel.Size)

	assert.Equal(t, "Mini Alt Parça Beyaz", got[1].Description)
	assert.Equal(t, "Mini Dikme 53 mm Beyaz", got[2].Description)
	assert.Equal(t, float64(2), got[2].Quantity)
	assert.Equal(t, "1383 mm", got[2].Size)
	assert.Equal(t, "1190 mm", got[3].Size)
	assert.Equal(t, "137 - ARKA 90 Alüminyum Kutu Beyaz", got[4].Description)
	assert.Equal(t, "1140 mm", got[5].Size)
}

func TestCalculator_EmptyStateDoesNotPanic(t *testing.T) {
	in := domain.CalculationInput{State: domain.State{}, Prices: priceFixture(), Accessories: accessoryFixture()}
	assert.NotPanics(t, func() {
		_ = Calculator{}.Products(in)
		_ = Calculator{}.Accessories(in)
	})
}
