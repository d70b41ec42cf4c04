// agroctl 运维命令行：迁移、种子数据与离线评分
package main

func main() {
	Execute()
}
