// Package worker 提供寄信等背景任務使用的固定大小工作池
package worker

import "sync"

// Task 單一背景任務，不回傳錯誤，失敗由任務內部記錄
type Task func()

// Pool 接收任務並於背景執行；Stop 會等待已提交任務完成
type Pool interface {
	Submit(Task)
	Stop()
}

type taskPool struct {
	queue chan Task
	wg    sync.WaitGroup
}

// NewPool 啟動 n 個 worker goroutine，n <= 0 時視為 1。
// 佇列帶少量緩衝，讓 HTTP handler 提交後即可返回。
func NewPool(n int) Pool {
	if n <= 0 {
		n = 1
	}
	p := &taskPool{queue: make(chan Task, n*4)}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go p.work()
	}
	return p
}

func (p *taskPool) work() {
	defer p.wg.Done()
	for task := range p.queue {
		if task != nil {
			task()
		}
	}
}

func (p *taskPool) Submit(t Task) {
	p.queue <- t
}

func (p *taskPool) Stop() {
	close(p.queue)
	p.wg.Wait()
}
