package novel

import (
	"fmt"
	"strings"
)

// EmptyChapterText 正文为空时的提示
const EmptyChapterText = "章节正在手打中，请稍后重新访问！"

// ChapterTextLocation 章节正文位置：{txt_url}/{id/1000}/{id}/{cid}.txt
func ChapterTextLocation(txtURL string, sourceID, chapterID uint64) string {
	return fmt.Sprintf("%s/%d/%d/%d.txt", strings.TrimRight(txtURL, "/"), sourceID/1000, sourceID, chapterID)
}
