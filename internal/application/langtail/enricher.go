// Package langtail 长尾词补全
//
// 设计说明:
// 1. 详情页请求触发，后台执行，请求不等待结果
// 2. 同一本书同一时刻只有一个任务在跑，重复触发直接丢弃
// 3. 任务无论成功、失败还是panic，退出时都会从进行中集合移除
// 4. 距上次生成不足freshness时跳过
// 5. 单个联想接口失败只影响该接口，其余结果照常写入
package langtail

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/xiebiao/novelsite/internal/domain/novel"
	"github.com/xiebiao/novelsite/internal/domain/site"
	"github.com/xiebiao/novelsite/pkg/metrics"
)

// 任务结果标签
const (
	resultSuccess      = "success"
	resultSkipped      = "skipped"
	resultDeduplicated = "deduplicated"
	resultEmpty        = "empty"
	resultFailure      = "failure"
)

// Fetcher 抓取联想接口
type Fetcher interface {
	Get(ctx context.Context, rawURL string) ([]byte, error)
}

// Config 补全任务配置
type Config struct {
	Workers   int           // 同时执行的任务数
	Freshness time.Duration // 距上次生成不足该时长时跳过
	Timeout   time.Duration // 单个任务超时
}

// Enricher 长尾词补全任务调度
type Enricher struct {
	store   novel.Store
	fetcher Fetcher
	engines []Engine
	cfg     Config
	logger  logrus.FieldLogger
	now     func() time.Time

	workers *semaphore.Weighted
	wg      sync.WaitGroup

	mu       sync.Mutex
	inflight map[uint64]struct{}
}

// NewEnricher 创建补全调度器，engines为空时使用DefaultEngines
func NewEnricher(store novel.Store, fetcher Fetcher, engines []Engine, cfg Config, logger logrus.FieldLogger) *Enricher {
	if len(engines) == 0 {
		engines = DefaultEngines
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.Freshness <= 0 {
		cfg.Freshness = 7 * 24 * time.Hour
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	return &Enricher{
		store:    store,
		fetcher:  fetcher,
		engines:  engines,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
		workers:  semaphore.NewWeighted(int64(cfg.Workers)),
		inflight: make(map[uint64]struct{}),
	}
}

// Trigger 为一本书启动补全任务，已有任务在跑时返回false
func (e *Enricher) Trigger(cfg *site.Config, sourceID uint64, articleName string) bool {
	if !e.acquire(sourceID) {
		metrics.IncCounterVec(metrics.EnrichmentRunsTotal, map[string]string{"result": resultDeduplicated})
		return false
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer e.release(sourceID)
		defer func() {
			if r := recover(); r != nil {
				metrics.IncCounterVec(metrics.EnrichmentRunsTotal, map[string]string{"result": resultFailure})
				e.logger.WithFields(logrus.Fields{
					"articleid": sourceID,
					"panic":     r,
				}).Error("长尾词任务panic")
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), e.cfg.Timeout)
		defer cancel()

		if err := e.workers.Acquire(ctx, 1); err != nil {
			e.logger.WithError(err).WithField("articleid", sourceID).Warn("长尾词任务排队超时")
			metrics.IncCounterVec(metrics.EnrichmentRunsTotal, map[string]string{"result": resultFailure})
			return
		}
		defer e.workers.Release(1)

		result := e.run(ctx, novel.NewQueries(cfg), sourceID, articleName)
		metrics.IncCounterVec(metrics.EnrichmentRunsTotal, map[string]string{"result": result})
	}()
	return true
}

// Wait 等待所有已启动的任务结束（优雅退出时使用）
func (e *Enricher) Wait() {
	e.wg.Wait()
}

func (e *Enricher) inFlight(sourceID uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.inflight[sourceID]
	return ok
}

func (e *Enricher) acquire(sourceID uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.inflight[sourceID]; ok {
		return false
	}
	e.inflight[sourceID] = struct{}{}
	return true
}

func (e *Enricher) release(sourceID uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.inflight, sourceID)
}

func (e *Enricher) run(ctx context.Context, q novel.Queries, sourceID uint64, articleName string) string {
	log := e.logger.WithField("articleid", sourceID)

	var latest []novel.LangTailRow
	st := q.LangTailLatest(sourceID)
	if err := e.store.Query(ctx, &latest, st.SQL, st.Params...); err != nil {
		log.WithError(err).Warn("查询长尾词失败")
		return resultFailure
	}
	now := e.now()
	if len(latest) > 0 && now.Sub(time.Unix(latest[0].Uptime, 0)) < e.cfg.Freshness {
		return resultSkipped
	}

	seen := make(map[string]struct{})
	var names []string
	for _, engine := range e.engines {
		body, err := e.fetcher.Get(ctx, engine.URL(articleName))
		if err != nil {
			log.WithError(err).WithField("engine", engine.Name).Warn("联想接口请求失败")
			continue
		}
		for _, w := range engine.Extract(body) {
			if _, ok := seen[w]; ok {
				continue
			}
			seen[w] = struct{}{}
			names = append(names, w)
		}
	}

	upsert, ok := q.UpsertLangTails(sourceID, articleName, names, now.Unix())
	if !ok {
		return resultEmpty
	}
	if _, err := e.store.Exec(ctx, upsert.SQL, upsert.Params...); err != nil {
		log.WithError(err).Warn("写入长尾词失败")
		return resultFailure
	}
	log.WithField("count", len(upsert.Params)/3).Info("长尾词已更新")
	return resultSuccess
}
