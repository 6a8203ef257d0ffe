// taihua-cli 在命令行里完成一次泰语文本到中文语音的转换，
// 方便不起 HTTP 服务时调试后端配置。
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/luoxin627/taihua/internal/config"
	"github.com/luoxin627/taihua/internal/logger"
	"github.com/luoxin627/taihua/internal/translate"
	"github.com/luoxin627/taihua/internal/tts"
)

func main() {
	configPath := flag.String("config", "configs/taihua.yaml", "配置文件路径")
	text := flag.String("text", "", "待转换的泰语文本")
	voice := flag.String("voice", "", "音色编号，空则用默认音色")
	speed := flag.String("speed", "1.0", "语速倍率 [0.5, 2.0]")
	out := flag.String("out", "", "输出文件路径，空则按格式自动命名")
	listVoices := flag.Bool("voices", false, "只列出可用音色")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(logger.Config{Level: cfg.Log.Level}); err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	speech, err := tts.NewProviderFromConfig(cfg.TTS)
	if err != nil {
		fmt.Fprintf(os.Stderr, "创建语音服务失败: %v\n", err)
		os.Exit(1)
	}
	defer speech.Shutdown()

	ctx := context.Background()

	if *listVoices {
		voices, err := speech.Voices(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "获取音色失败: %v\n", err)
			os.Exit(1)
		}
		for _, v := range voices {
			fmt.Printf("%s. %s（%s）\n", v.ID, v.DisplayName, v.Label)
		}
		return
	}

	if *text == "" {
		fmt.Fprintln(os.Stderr, "用法: taihua-cli -text <泰语文本> [-voice 1] [-speed 1.0]")
		os.Exit(2)
	}

	primary, err := translate.NewTencentBackend(
		cfg.Translate.Tencent.SecretID,
		cfg.Translate.Tencent.SecretKey,
		cfg.Translate.Tencent.Region,
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "创建腾讯翻译后端失败: %v\n", err)
		os.Exit(1)
	}
	secondary, err := translate.NewOpenAIBackend(
		cfg.Translate.OpenAI.APIURL,
		cfg.Translate.OpenAI.APIKey,
		cfg.Translate.OpenAI.Model,
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "创建大模型翻译后端失败: %v\n", err)
		os.Exit(1)
	}
	engine, err := translate.NewEngine(translate.EngineConfig{
		Primary:            primary,
		Secondary:          secondary,
		ShortTextThreshold: cfg.Translate.ShortTextThreshold,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "创建翻译引擎失败: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	result, err := engine.Translate(ctx, *text)
	if err != nil {
		fmt.Fprintf(os.Stderr, "翻译失败: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("中文: %s\n", result.Text)
	fmt.Printf("拼音: %s\n", translate.Romanize(result.Text))
	fmt.Printf("后端: %s (%s)\n", result.Engine, result.Route)

	artifact, err := speech.Synthesize(ctx, tts.Request{
		Text:  result.Text,
		Voice: *voice,
		Speed: *speed,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "合成失败: %v\n", err)
		os.Exit(1)
	}

	outPath := *out
	if outPath == "" {
		outPath = fmt.Sprintf("taihua_%s.%s", time.Now().Format("20060102_150405"), artifact.Format)
	}
	if err := os.WriteFile(outPath, artifact.Data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "写输出文件失败: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("已生成 %s (%.1f KB, %s)\n", outPath, artifact.SizeKB(), artifact.Duration)
}
