package constants

// Коды регионов 591
const (
	RegionTaipei = "1" // 台北市
)

// Типы жилья 591 (параметр kind)
const (
	KindAny         = "0" // 不限
	KindWholeFlat   = "1" // 整層住家
	KindSuite       = "2" // 獨立套房
	KindSharedSuite = "3" // 分租套房
	KindRoom        = "4" // 雅房
)

// Базовые адреса источников
const (
	Rental591Origin = "https://rent.591.com.tw"
	RakuyaOrigin    = "https://www.rakuya.com.tw"
)

// Ограничение глубины пагинации по умолчанию
const DefaultMaxPages = 3
