package normalizer

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/width"

	"rental-hub-service/internal/core/domain"
)

// Нормализация сырых записей в каноническое объявление.
// Все функции чистые, без I/O — их можно гонять в тестах на любых строках.

var (
	priceRe    = regexp.MustCompile(`[0-9]+`)
	areaRe     = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)?`)
	districtRe = regexp.MustCompile(`[^市縣，,、\s]+區`)
	roomTypeRe = regexp.MustCompile(`[0-9]+房[0-9]+廳|[0-9]+房|套房|雅房`)
	sourceIDRe = regexp.MustCompile(`([0-9]+)\.html`)
)

// Ключевые слова удобств: подстрочное совпадение по тегам особенностей.
var amenityKeywords = map[string][]string{
	"parking":  {"車位", "停車"},
	"pet":      {"寵物"},
	"cooking":  {"開伙", "廚房"},
	"elevator": {"電梯"},
	"balcony":  {"陽台", "露台"},
	"washer":   {"洗衣機"},
}

// FoldWidth приводит полноширинные символы (２萬, ＡＢＣ) к обычным.
// Источники и пользователи свободно смешивают обе формы.
func FoldWidth(s string) string {
	return width.Fold.String(s)
}

// ParsePrice извлекает первую непрерывную последовательность цифр из
// свободной строки цены, предварительно убрав разделители тысяч.
// Пустая или нечитаемая строка даёт 0.
func ParsePrice(s string) int {
	if s == "" {
		return 0
	}
	folded := strings.NewReplacer(",", "", " ", "").Replace(FoldWidth(s))
	match := priceRe.FindString(folded)
	if match == "" {
		return 0
	}
	price, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return price
}

// ParseArea извлекает первое десятичное число (坪數).
// Нечитаемая строка даёт nil, а не 0 — отсутствие площади и нулевая
// площадь различимы в фильтрах.
func ParseArea(s string) *float64 {
	if s == "" {
		return nil
	}
	match := areaRe.FindString(FoldWidth(s))
	if match == "" {
		return nil
	}
	area, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return nil
	}
	return &area
}

// DistrictFromAddress достаёт административный район из адреса:
// первая последовательность символов перед суффиксом 區.
// "台北市大安區復興南路一段" -> "大安區"
func DistrictFromAddress(address string) string {
	return districtRe.FindString(address)
}

// RoomTypeFromTitle распознаёт тип жилья по фиксированному словарю
// (套房/雅房/N房[M廳]); более длинные шаблоны проверяются первыми.
func RoomTypeFromTitle(title string) string {
	return roomTypeRe.FindString(FoldWidth(title))
}

// SourceIDFromURL — запасной вариант ID объявления, когда источник
// не отдал его явно: числовой хвост вида /12345.html.
func SourceIDFromURL(u string) string {
	m := sourceIDRe.FindStringSubmatch(u)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// NormalizeURL достраивает ссылку до абсолютной:
// протокол-относительные получают https:, путевые — origin источника.
func NormalizeURL(u, origin string) string {
	switch {
	case u == "":
		return ""
	case strings.HasPrefix(u, "http"):
		return u
	case strings.HasPrefix(u, "//"):
		return "https:" + u
	case strings.HasPrefix(u, "/"):
		return origin + u
	default:
		return u
	}
}

// CategorizeFeature относит тег особенности к одной из фиксированных категорий.
func CategorizeFeature(feature string) string {
	switch {
	case containsAny(feature, "捷運", "公車", "交通"):
		return "交通"
	case containsAny(feature, "電梯", "車位", "陽台"):
		return "設施"
	case containsAny(feature, "學校", "市場", "公園"):
		return "生活機能"
	case containsAny(feature, "寵物", "開伙", "管理"):
		return "規定"
	default:
		return "其他"
	}
}

func containsAny(s string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func hasAmenity(features []string, flag string) bool {
	for _, f := range features {
		if containsAny(f, amenityKeywords[flag]...) {
			return true
		}
	}
	return false
}

// Normalize приводит сырую запись источника к каноническому объявлению.
// origin — корень сайта-источника для достройки относительных ссылок.
func Normalize(raw domain.RawListing, source, origin string) domain.Listing {
	features := make([]string, 0, len(raw.Features))
	for _, f := range raw.Features {
		if trimmed := strings.TrimSpace(f); trimmed != "" {
			features = append(features, trimmed)
		}
	}

	district := strings.TrimSpace(raw.District)
	if district == "" {
		district = DistrictFromAddress(raw.Address)
	}

	roomType := strings.TrimSpace(raw.RoomType)
	if roomType == "" {
		roomType = RoomTypeFromTitle(raw.Title)
	}

	sourceID := strings.TrimSpace(raw.SourceID)
	if sourceID == "" {
		sourceID = SourceIDFromURL(raw.URL)
	}

	listing := domain.Listing{
		Source:      source,
		SourceID:    sourceID,
		Title:       strings.TrimSpace(raw.Title),
		Description: strings.TrimSpace(raw.Description),
		Price:       ParsePrice(raw.Price),
		Deposit:     strings.TrimSpace(raw.Deposit),
		District:    district,
		Address:     strings.TrimSpace(raw.Address),
		NearMRT:     strings.TrimSpace(raw.NearMRT),
		Area:        ParseArea(raw.Area),
		RoomType:    roomType,
		Floor:       strings.TrimSpace(raw.Floor),
		TotalFloors: strings.TrimSpace(raw.TotalFloors),

		HasParking:  hasAmenity(features, "parking"),
		HasPet:      hasAmenity(features, "pet"),
		HasCooking:  hasAmenity(features, "cooking"),
		HasElevator: hasAmenity(features, "elevator"),
		HasBalcony:  hasAmenity(features, "balcony"),
		HasWasher:   hasAmenity(features, "washer"),

		ContactName:  strings.TrimSpace(raw.ContactName),
		ContactPhone: strings.TrimSpace(raw.ContactPhone),
		URL:          NormalizeURL(raw.URL, origin),
		IsActive:     true,
	}

	for i, img := range raw.Images {
		if img == "" {
			continue
		}
		listing.Images = append(listing.Images, domain.ListingImage{
			URL:   NormalizeURL(img, origin),
			Order: i,
		})
	}

	for _, f := range features {
		listing.Features = append(listing.Features, domain.ListingFeature{
			Feature:  f,
			Category: CategorizeFeature(f),
		})
	}

	return listing
}
