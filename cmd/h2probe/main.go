// Package main 提供 h2probe 命令行工具
//
// h2probe 通过 go-h2pool 客户端请求一组 URL，报告每个请求使用的协议，
// 并可以打印或解码 HTTP2-Settings 升级令牌。
//
//	h2probe -n 3 https://example.com/ http://example.org/
//	h2probe -token
//	h2probe -decode AAEAAEAAAAIAAAAAAAMAAAAAAAQBAAAAAAUAAEAAAAYABgAA
package main

import (
	"context"
	"crypto/tls"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dep2p/go-h2pool"
	"github.com/dep2p/go-h2pool/config"
	"github.com/dep2p/go-h2pool/internal/core/settings"
	"github.com/dep2p/go-h2pool/internal/util/logger"
	"github.com/dep2p/go-h2pool/pkg/lib/log"
)

var cmdLogger = log.Logger("h2pool/cmd")

var (
	configFile  = flag.String("config", "", "配置文件路径（JSON）")
	requests    = flag.Int("n", 1, "每个 URL 的请求次数")
	concurrency = flag.Int("c", 4, "并发请求数")
	timeout     = flag.Duration("timeout", 30*time.Second, "单个请求超时")
	insecure    = flag.Bool("insecure", false, "跳过证书校验")
	printToken  = flag.Bool("token", false, "打印当前配置的 HTTP2-Settings 令牌")
	decodeToken = flag.String("decode", "", "解码 HTTP2-Settings 令牌")
	showVersion = flag.Bool("version", false, "显示版本信息")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "用法: %s [选项] URL...\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	logger.Setup(os.Stderr)

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "错误:", err)
		os.Exit(1)
	}
}

func run() error {
	if *showVersion {
		fmt.Println(h2pool.VersionInfo())
		return nil
	}
	if *decodeToken != "" {
		return printSettings(*decodeToken)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts := []h2pool.Option{h2pool.WithConfig(cfg)}
	if *insecure {
		opts = append(opts, h2pool.WithTLSConfig(&tls.Config{InsecureSkipVerify: true}))
	}
	client, err := h2pool.New(opts...)
	if err != nil {
		return err
	}
	defer client.Close()

	if *printToken {
		token, err := client.SettingsToken()
		if err != nil {
			return err
		}
		fmt.Printf("%s: %s\n", settings.UpgradeHeader, token)
		if flag.NArg() == 0 {
			return nil
		}
	}

	if flag.NArg() == 0 {
		flag.Usage()
		return fmt.Errorf("至少需要一个 URL")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := probeAll(ctx, client, flag.Args()); err != nil {
		return err
	}

	stats := client.Stats()
	fmt.Printf("\n池中连接: %d  协商失败目标: %d\n", stats.Connections, len(stats.FailedKeys))
	for _, k := range stats.FailedKeys {
		fmt.Printf("  回退 HTTP/1.1: %s\n", k)
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	if *configFile != "" {
		loaded, err := config.LoadFile(*configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.NewConfig()
	}
	if *insecure {
		cfg.Negotiation.InsecureSkipVerify = true
	}
	return cfg, nil
}

// probeAll 并发请求所有 URL，单个请求失败不影响其他请求
func probeAll(ctx context.Context, client *h2pool.Client, urls []string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(*concurrency, 1))

	var mu sync.Mutex
	for _, u := range urls {
		u := u
		for i := 0; i < *requests; i++ {
			g.Go(func() error {
				line := probe(ctx, client, u)
				mu.Lock()
				fmt.Println(line)
				mu.Unlock()
				return ctx.Err()
			})
		}
	}
	return g.Wait()
}

func probe(ctx context.Context, client *h2pool.Client, url string) string {
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Sprintf("%-40s 错误: %v", url, err)
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		cmdLogger.Debug("请求失败", "url", url, "error", err)
		return fmt.Sprintf("%-40s 错误: %v", url, err)
	}
	n, _ := io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	return fmt.Sprintf("%-40s %s %d %6d 字节 %v", url, resp.Proto, resp.StatusCode, n, time.Since(start).Round(time.Millisecond))
}

func printSettings(token string) error {
	s, err := settings.DecodeToken(token)
	if err != nil {
		return err
	}
	for _, st := range s.List() {
		v, _ := s.Get(st.ID)
		fmt.Printf("%-28s %d\n", st.ID, v)
	}
	return nil
}
