package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const detailURL = "https://tabelog.com/tokyo/A1301/A130101/13000001/"

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtractName(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<h1>そのほかの見出し</h1>
		<h2 class="display-name"><span>麺屋 一番</span></h2>
	</body></html>`)

	details := ExtractDetails(doc, detailURL)
	require.NotNil(t, details.Name)
	assert.Equal(t, "麺屋 一番", *details.Name)
}

func TestExtractNameFallsBackToHeading(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<h2>麺屋 一番</h2>
	</body></html>`)

	details := ExtractDetails(doc, detailURL)
	require.NotNil(t, details.Name)
	assert.Equal(t, "麺屋 一番", *details.Name)
}

func TestExtractRating(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<span>3.85</span>
		<span>4.10</span>
	</body></html>`)

	details := ExtractDetails(doc, detailURL)
	require.NotNil(t, details.Rating)
	assert.Equal(t, 3.85, *details.Rating)
}

func TestExtractRatingIgnoresNonStandaloneText(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<span>評価は3.85でした</span>
	</body></html>`)

	details := ExtractDetails(doc, detailURL)
	assert.Nil(t, details.Rating)
}

func TestExtractAddressFromStructuredData(t *testing.T) {
	doc := parseDoc(t, `<html><head>
		<script type="application/ld+json">
		{"@type":"Restaurant","address":{"addressRegion":"東京都","addressLocality":"品川区","streetAddress":"西五反田1-2-3"}}
		</script>
	</head><body></body></html>`)

	details := ExtractDetails(doc, detailURL)
	require.NotNil(t, details.Address)
	assert.Equal(t, "東京都品川区西五反田1-2-3", *details.Address)
}

func TestExtractAddressFromStructuredDataArray(t *testing.T) {
	doc := parseDoc(t, `<html><head>
		<script type="application/ld+json">
		[{"@type":"BreadcrumbList"},{"@type":"Restaurant","address":{"addressRegion":"東京都","addressLocality":"渋谷区","streetAddress":"道玄坂2-1"}}]
		</script>
	</head><body></body></html>`)

	details := ExtractDetails(doc, detailURL)
	require.NotNil(t, details.Address)
	assert.Equal(t, "東京都渋谷区道玄坂2-1", *details.Address)
}

func TestExtractAddressMalformedJSONIsNotFatal(t *testing.T) {
	doc := parseDoc(t, `<html><head>
		<script type="application/ld+json">{not json</script>
		<script type="application/ld+json">
		{"address":{"addressRegion":"東京都","addressLocality":"目黒区","streetAddress":"中目黒1-1"}}
		</script>
	</head><body></body></html>`)

	details := ExtractDetails(doc, detailURL)
	require.NotNil(t, details.Address)
	assert.Equal(t, "東京都目黒区中目黒1-1", *details.Address)
}

func TestExtractAddressUnsetWhenMissing(t *testing.T) {
	doc := parseDoc(t, `<html><body><p>住所の記載なし</p></body></html>`)

	details := ExtractDetails(doc, detailURL)
	assert.Nil(t, details.Address)
}

func TestExtractCoordinatesFromMetaTags(t *testing.T) {
	doc := parseDoc(t, `<html><head>
		<meta property="place:location:latitude" content="35.6" />
		<meta property="place:location:longitude" content="139.7" />
	</head><body></body></html>`)

	details := ExtractDetails(doc, detailURL)
	require.NotNil(t, details.Latitude)
	require.NotNil(t, details.Longitude)
	assert.Equal(t, 35.6, *details.Latitude)
	assert.Equal(t, 139.7, *details.Longitude)
}

func TestExtractCoordinatesRequiresBothMetaTags(t *testing.T) {
	doc := parseDoc(t, `<html><head>
		<meta property="place:location:latitude" content="35.6" />
	</head><body></body></html>`)

	details := ExtractDetails(doc, detailURL)
	assert.Nil(t, details.Latitude)
	assert.Nil(t, details.Longitude)
}

func TestExtractCoordinatesFromScripts(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<script>var onlyLat = {latitude: 1.0};</script>
		<script>var map = {"latitude": 35.658, "longitude": 139.701};</script>
	</body></html>`)

	details := ExtractDetails(doc, detailURL)
	require.NotNil(t, details.Latitude)
	require.NotNil(t, details.Longitude)
	assert.Equal(t, 35.658, *details.Latitude)
	assert.Equal(t, 139.701, *details.Longitude)
}

func TestExtractPhone(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<span>03-1234-5678</span>
	</body></html>`)

	details := ExtractDetails(doc, detailURL)
	require.NotNil(t, details.Phone)
	assert.Equal(t, "03-1234-5678", *details.Phone)
}

func TestExtractPriceRange(t *testing.T) {
	doc := parseDoc(t, `<html><head>
		<script type="application/ld+json">{"priceRange": "￥1,000～￥1,999"}</script>
	</head><body></body></html>`)

	details := ExtractDetails(doc, detailURL)
	require.NotNil(t, details.PriceRange)
	assert.Equal(t, "￥1,000～￥1,999", *details.PriceRange)
}

func TestExtractHours(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<span>11:30～15:00</span>
	</body></html>`)

	details := ExtractDetails(doc, detailURL)
	require.NotNil(t, details.Hours)
	assert.Equal(t, "11:30～15:00", *details.Hours)
}

func TestExtractHoursDiscardsJSONNoise(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<script>{"openingHours": "11:30-15:00"}</script>
	</body></html>`)

	details := ExtractDetails(doc, detailURL)
	assert.Nil(t, details.Hours)
}

func TestExtractReviewCount(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<span>口コミ 1234件</span>
	</body></html>`)

	details := ExtractDetails(doc, detailURL)
	require.NotNil(t, details.ReviewCount)
	assert.Equal(t, int64(1234), *details.ReviewCount)
}

func TestExtractEmptyPageLeavesEverythingUnset(t *testing.T) {
	doc := parseDoc(t, `<html><body></body></html>`)

	details := ExtractDetails(doc, detailURL)
	assert.Equal(t, detailURL, details.URL)
	assert.Nil(t, details.Name)
	assert.Nil(t, details.Rating)
	assert.Nil(t, details.Address)
	assert.Nil(t, details.Latitude)
	assert.Nil(t, details.Longitude)
	assert.Nil(t, details.Phone)
	assert.Nil(t, details.PriceRange)
	assert.Nil(t, details.Hours)
	assert.Nil(t, details.ReviewCount)
}
