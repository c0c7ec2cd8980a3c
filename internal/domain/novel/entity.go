package novel

// 数据库行（内部表示）
// 设计说明:
// 1. 行结构只携带内部ID，查询时写入一次，之后不再修改
// 2. 同时作为缓存载荷序列化（json标签），与数据库列名保持一致
// 3. 对外展示的记录由Mapper生成，见 mapper.go

// NovelRow 小说行
type NovelRow struct {
	ArticleID     uint64 `gorm:"column:articleid" json:"articleid"`
	ArticleName   string `gorm:"column:articlename" json:"articlename"`
	Intro         string `gorm:"column:intro" json:"intro"`
	Author        string `gorm:"column:author" json:"author"`
	SortID        int    `gorm:"column:sortid" json:"sortid"`
	FullFlag      int    `gorm:"column:fullflag" json:"fullflag"`
	LastUpdate    int64  `gorm:"column:lastupdate" json:"lastupdate"`
	ImgFlag       int    `gorm:"column:imgflag" json:"imgflag"`
	AllVisit      uint64 `gorm:"column:allvisit" json:"allvisit"`
	AllVote       uint64 `gorm:"column:allvote" json:"allvote"`
	GoodNum       uint64 `gorm:"column:goodnum" json:"goodnum"`
	Keywords      string `gorm:"column:keywords" json:"keywords"`
	LastChapter   string `gorm:"column:lastchapter" json:"lastchapter"`
	LastChapterID uint64 `gorm:"column:lastchapterid" json:"lastchapterid"`
	Words         uint64 `gorm:"column:words" json:"words"`
}

// ChapterRow 章节行
type ChapterRow struct {
	ArticleID    uint64 `gorm:"column:articleid" json:"articleid"`
	ChapterID    uint64 `gorm:"column:chapterid" json:"chapterid"`
	ChapterName  string `gorm:"column:chaptername" json:"chaptername"`
	ChapterType  int    `gorm:"column:chaptertype" json:"chaptertype"`
	ChapterOrder int    `gorm:"column:chapterorder" json:"chapterorder"`
	LastUpdate   int64  `gorm:"column:lastupdate" json:"lastupdate"`
}

// LangTailRow 长尾词行，SourceID 是所属小说的内部ID
type LangTailRow struct {
	LangID   uint64 `gorm:"column:langid" json:"langid"`
	SourceID uint64 `gorm:"column:sourceid" json:"sourceid"`
	LangName string `gorm:"column:langname" json:"langname"`
	Uptime   int64  `gorm:"column:uptime" json:"uptime"`
}

// 对外展示记录（只由Mapper生成）

// Novel 对外的小说记录
type Novel struct {
	ArticleID     uint64 `json:"articleid"`
	SourceID      uint64 `json:"-"`
	ArticleName   string `json:"articlename"`
	Intro         string `json:"intro"`
	IntroDes      string `json:"intro_des"`
	Author        string `json:"author"`
	AuthorURL     string `json:"author_url"`
	SortID        int    `json:"sortid"`
	SortName      string `json:"sortname"`
	SortName2     string `json:"sortname_2"`
	SortURL       string `json:"sort_url"`
	FullFlag      bool   `json:"fullflag"`
	IsFull        string `json:"isfull"`
	LastUpdate    int64  `json:"lastupdate"`
	LastUpdateCN  string `json:"lastupdate_cn"`
	ImgURL        string `json:"img_url"`
	AllVisit      uint64 `json:"allvisit"`
	AllVote       uint64 `json:"allvote"`
	GoodNum       uint64 `json:"goodnum"`
	Keywords      string `json:"keywords"`
	LastChapter   string `json:"lastchapter"`
	LastChapterID uint64 `json:"lastchapterid"`
	LastURL       string `json:"last_url"`
	Words         uint64 `json:"words"`
	WordsW        uint64 `json:"words_w"`
	InfoURL       string `json:"info_url"`
	IndexURL      string `json:"index_url"`
}

// Chapter 对外的章节记录
type Chapter struct {
	ArticleID    uint64 `json:"articleid"`
	ChapterID    uint64 `json:"chapterid"`
	SourceID     uint64 `json:"-"`
	ChapterName  string `json:"chaptername"`
	ChapterType  int    `json:"chaptertype"`
	ChapterOrder int    `json:"chapterorder"`
	LastUpdate   int64  `json:"lastupdate"`
	ReadURL      string `json:"read_url"`
}

// LangTail 对外的长尾词记录
type LangTail struct {
	LangID   uint64 `json:"langid"`
	LangName string `json:"langname"`
	Uptime   int64  `json:"uptime"`
	InfoURL  string `json:"info_url"`
	IndexURL string `json:"index_url"`
}
