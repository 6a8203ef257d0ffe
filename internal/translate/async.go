package translate

import (
	"context"
	"sync"
	"time"

	"github.com/luoxin627/taihua/internal/logger"
)

// job 一次异步翻译任务。结果写入后 close(done)，之后只读。
type job struct {
	text   string
	done   chan struct{}
	result Result
	err    error
}

func (j *job) isDone() bool {
	select {
	case <-j.done:
		return true
	default:
		return false
	}
}

// asyncState 引擎的异步执行状态。
// 同一时刻最多跟踪一个任务；任务完成后结果保持可取，直到被新任务取代。
type asyncState struct {
	mu     sync.Mutex
	jobs   chan *job
	job    *job
	closed bool
}

func (e *Engine) startWorker() {
	e.async.jobs = make(chan *job, 1)
	go func() {
		for j := range e.async.jobs {
			j.result, j.err = e.Translate(context.Background(), j.text)
			close(j.done)
		}
	}()
}

// Submit 把翻译任务交给工作协程后立即返回。
// 已有任务在运行时返回 ErrJobPending（不覆盖运行中的任务）；
// 上一个任务已结束时允许提交，其结果被新任务取代。
func (e *Engine) Submit(text string) error {
	e.async.mu.Lock()
	defer e.async.mu.Unlock()

	if e.async.closed {
		return ErrEngineClosed
	}
	if e.async.job != nil && !e.async.job.isDone() {
		return ErrJobPending
	}

	j := &job{text: text, done: make(chan struct{})}
	e.async.job = j
	// Submit 只在无运行中任务时走到这里，工作协程必然空闲，
	// 容量为 1 的 channel 发送不会阻塞。
	e.async.jobs <- j

	logger.Debugf("[translate] 已提交异步翻译任务: %d 字符", len([]rune(text)))
	return nil
}

// AwaitResult 阻塞等待当前异步任务的结果，最多等 timeout。
// 超时只结束本次等待，任务继续在后台运行，之后可以再次调用取结果。
// 没有提交过任务时返回 KindNoJobSubmitted 错误。
func (e *Engine) AwaitResult(timeout time.Duration) (Result, error) {
	e.async.mu.Lock()
	j := e.async.job
	e.async.mu.Unlock()

	if j == nil {
		return Result{}, &Error{Kind: KindNoJobSubmitted}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-j.done:
		return j.result, j.err
	case <-timer.C:
		return Result{}, &Error{Kind: KindTimeout}
	}
}

// IsDone 非阻塞查询当前异步任务是否已结束。
// 没有任务时返回 false。
func (e *Engine) IsDone() bool {
	e.async.mu.Lock()
	j := e.async.job
	e.async.mu.Unlock()
	return j != nil && j.isDone()
}

// Close 关闭引擎，之后的 Submit 返回 ErrEngineClosed。
// 运行中的任务在后台执行完毕，不等待也不中断。可重复调用。
func (e *Engine) Close() {
	e.async.mu.Lock()
	defer e.async.mu.Unlock()

	if e.async.closed {
		return
	}
	e.async.closed = true
	close(e.async.jobs)
	logger.Info("[translate] 翻译引擎已关闭")
}
