package rakuya

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

const samplePage = `
<html><body>
  <div class="obj-info">
    <h6 class="obj-title"><a href="/rent/item/123456">大安區溫馨套房 近捷運</a></h6>
    <div class="obj-price">18,000 元/月</div>
    <div class="obj-address">台北市大安區和平東路二段</div>
    <div class="obj-data">套房 | 8.5坪 | 3樓</div>
    <span class="obj-tag">有電梯</span>
    <span class="obj-tag">可養寵物</span>
    <img src="//img.rakuya.com.tw/photo/123456.jpg">
  </div>
  <div class="obj-info">
    <h6 class="obj-title"><a href="/rent/item/654321">信義區2房1廳</a></h6>
    <div class="obj-price">35,000 元/月</div>
    <div class="obj-address">台北市信義區松仁路</div>
    <div class="obj-data">2房1廳 | 25坪 | 12樓</div>
  </div>
  <div class="obj-info"></div>
  <div class="pagination"><a rel="next" href="?page=2">下一頁</a></div>
</body></html>`

func TestParseListings(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(samplePage))
	if err != nil {
		t.Fatalf("failed to parse sample page: %v", err)
	}

	records := parseListings(doc)
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2 (empty card skipped)", len(records))
	}

	first := records[0]
	if first.Title != "大安區溫馨套房 近捷運" {
		t.Errorf("title = %q", first.Title)
	}
	if first.URL != "/rent/item/123456" {
		t.Errorf("url = %q", first.URL)
	}
	if first.Price != "18,000 元/月" {
		t.Errorf("price = %q", first.Price)
	}
	if first.RoomType != "套房" {
		t.Errorf("roomType = %q", first.RoomType)
	}
	if first.Area != "8.5坪" {
		t.Errorf("area = %q", first.Area)
	}
	if first.Floor != "3樓" {
		t.Errorf("floor = %q", first.Floor)
	}
	if len(first.Features) != 2 || first.Features[0] != "有電梯" {
		t.Errorf("features = %v", first.Features)
	}
	if len(first.Images) != 1 {
		t.Errorf("images = %v", first.Images)
	}

	second := records[1]
	if second.RoomType != "2房1廳" {
		t.Errorf("second roomType = %q", second.RoomType)
	}
}

func TestParseListings_NextPageDetection(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(samplePage))
	if err != nil {
		t.Fatalf("failed to parse sample page: %v", err)
	}
	if doc.Find("a.pagination-next, .pagination a[rel='next']").Length() == 0 {
		t.Error("next page link not detected")
	}
}
