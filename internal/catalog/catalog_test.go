package catalog

import (
	"testing"

	"shutter-pricing-service/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *Catalog {
	return New([]domain.CatalogItem{
		{Description: "39 mm Alüminyum Poliüretanlı Lamel Beyaz", Type: TypeLamel, Price: "10.00"},
		{Description: "39 mm Alüminyum Poliüretanlı Lamel Antrasit Gri", Type: TypeLamel, Price: "12.00"},
		{Description: "Mini Alt Parça Beyaz", Type: TypeBottomRail, Price: "3.50"},
		{Description: "Mini Dikme 53 mm Beyaz", Type: TypePost, Price: "4.00"},
		{Description: "137 - ÖN 45 Alüminyum Kutu Antrasit Gri", Type: TypeBox, Price: "6.00"},
		{Description: "137 - ARKA 90 Alüminyum Kutu Beyaz", Type: TypeBox, Price: "5.00"},
		{Description: "40mm Sekizgen Boru 0,40 Galvaniz", Type: "boru", Price: "2.00"},
		{Description: "Somfy Situo 1 Io Kumanda", Type: TypeRemote, Price: "30"},
		{Description: "Mosel DD 7002 B Hub", Type: TypeSmartHome, Price: "80"},
		{Description: "Somfy Alıcı Io", Type: TypeReceiver, Price: "25"},
		{Description: "Mosel SEL 60-20 Alıcılı Motor", Type: "PANJUR_MOTORLARI", Price: "120"},
		{Description: "Rulman 12x28", StockCode: "R1", Type: "aksesuar", Price: "1"},
	})
}

func TestNormalizeColor(t *testing.T) {
	assert.Equal(t, "Metalik Gri", NormalizeColor("metalik_gri"))
	assert.Equal(t, "Beyaz", NormalizeColor("BEYAZ"))
	assert.Equal(t, "Somfy Situo 1 Io", NormalizeName("somfy_situo_1_io"))
	assert.Equal(t, "alici", FoldTurkish("Alıcı"))
}

func TestLamel_ExactColorAndFallback(t *testing.T) {
	c := testCatalog()

	gray := c.Lamel("39_sl", "aluminyum_poliuretanli", "antrasit_gri", 49, 1021)
	require.NotNil(t, gray)
	assert.Equal(t, "39 mm Alüminyum Poliüretanlı Lamel Antrasit Gri", gray.Description)
	assert.Equal(t, 49, gray.Pieces)
	assert.InDelta(t, 50.029, gray.Quantity, 1e-9)
	assert.Equal(t, "1021 mm", gray.Size)

	fallback := c.Lamel("39_sl", "aluminyum_poliuretanli", "bronz", 10, 1000)
	require.NotNil(t, fallback, "uncataloged colour falls back to the default colour")
	assert.Equal(t, "39 mm Alüminyum Poliüretanlı Lamel Beyaz", fallback.Description)
	assert.True(t, decimal.NewFromInt(100).Equal(fallback.TotalPrice))

	assert.Nil(t, c.Lamel("45_se", "aluminyum_ekstruzyon", "beyaz", 10, 1000))
}

func TestBox_IndependentFallbacks(t *testing.T) {
	c := testCatalog()

	front, back := c.Box("137mm", "antrasit_gri", 1096)
	require.NotNil(t, front)
	require.NotNil(t, back)
	assert.Equal(t, "137 - ÖN 45 Alüminyum Kutu Antrasit Gri", front.Description)
	assert.Equal(t, "137 - ARKA 90 Alüminyum Kutu Beyaz", back.Description)

	front, back = c.Box("165mm", "beyaz", 1096)
	assert.Nil(t, front)
	assert.Nil(t, back)
}

func TestMainLookups(t *testing.T) {
	c := testCatalog()

	posts := c.Posts("mini_dikme", "", 2, 1383)
	require.NotNil(t, posts)
	assert.Equal(t, float64(2), posts.Quantity)
	assert.True(t, decimal.NewFromInt(8).Equal(posts.TotalPrice))

	tube := c.TubeProfile("manuel", 1200)
	require.NotNil(t, tube)
	assert.Equal(t, "1140 mm", tube.Size)
	assert.Nil(t, c.TubeProfile("motorlu", 1200))

	remote := c.Remote("somfy_situo_1_io")
	require.NotNil(t, remote)
	assert.Nil(t, c.Remote("yok"))

	require.NotNil(t, c.SmartHome("mosel_dd_7002_b"))
	assert.Nil(t, c.SmartHome("yok"))

	field := &domain.FieldDefinition{ID: "receiver", Options: []domain.FieldOption{{ID: "somfy_io", Name: "Somfy Alıcı Io"}}}
	require.NotNil(t, c.Receiver("somfy_io", field))
	assert.Nil(t, c.Receiver("somfy_io", nil))
	assert.Nil(t, c.Receiver("unknown", field))

	motor, ok := c.Motor("mosel", "sel_60-20", "alicili_motorlu")
	require.True(t, ok)
	assert.Equal(t, "120", motor.Price)
	_, ok = c.Motor("mosel", "sel_60-20", "duz_motorlu")
	assert.False(t, ok)

	_, ok = c.ByStockCode("R1")
	assert.True(t, ok)
	_, ok = c.Containing("RULMAN 12X28")
	assert.True(t, ok)
}

func TestNew_SnapshotIsIsolatedFromInput(t *testing.T) {
	items := []domain.CatalogItem{{Description: "Rulman 12x28", StockCode: "R1", Type: "aksesuar", Price: "1"}}
	c := New(items)
	items[0].Description = "Rulman 10x26"

	got, ok := c.ExactAny("Rulman 12x28")
	require.True(t, ok)
	assert.Equal(t, "R1", got.StockCode)
	_, ok = c.ExactAny("Rulman 10x26")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())
}
