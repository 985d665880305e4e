/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package client

import "github.com/go-kit/log/level"

// whenReady runs task right away if the session is ready,
// otherwise holds it until the session goes online.
func (c *Client) whenReady(task func()) {
	if c.ready {
		task()
		return
	}
	c.pending = append(c.pending, task)
}

func (c *Client) openGate() {
	c.ready = true

	tasks := c.pending
	c.pending = nil
	for _, task := range tasks {
		task()
	}
}

func (c *Client) closeGate() {
	c.ready = false
	if n := len(c.pending); n > 0 {
		level.Info(c.logger).Log("msg", "discarding pending operations", "count", n)
	}
	c.pending = nil
}
